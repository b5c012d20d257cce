// Package milestones resolves class specific level events: expertise, subclass
// skill grants, extra ability score improvements and saving throw proficiencies.
package milestones

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/rulebook"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-sheet/internal/prompt"
)

// Handler resolves one class event. Handlers must be safe to run again on a
// character that already went through them: when nothing is left to choose
// they return without prompting.
type Handler func(ctx context.Context, c *character.Character, chooser prompt.Chooser) error

type key struct {
	class string
	level int
}

// Registry dispatches (class, level) pairs to handlers
type Registry struct {
	handlers map[key]Handler
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[key]Handler)}
}

// Register binds a handler to a class and level, replacing any previous one
func (r *Registry) Register(class string, level int, h Handler) *Registry {
	r.handlers[key{class, level}] = h
	return r
}

// Has reports whether a handler exists for the class and level
func (r *Registry) Has(class string, level int) bool {
	_, ok := r.handlers[key{class, level}]
	return ok
}

// Resolve runs the handler for the character's class at the given level
func (r *Registry) Resolve(ctx context.Context, c *character.Character, chooser prompt.Chooser, level int) error {
	h, ok := r.handlers[key{c.Class, level}]
	if !ok {
		return dnderr.Internalf("no milestone handler for %s at level %d", c.Class, level).
			WithMeta("class_key", c.Class).
			WithMeta("level", level)
	}
	if err := h(ctx, c, chooser); err != nil {
		return dnderr.Wrapf(err, "failed to resolve %s level %d milestone", c.Class, level)
	}
	return nil
}

// Check verifies every milestone listed in the rule tables has a handler
func (r *Registry) Check(rules *rulebook.Rulebook) error {
	for _, class := range rules.Classes() {
		for _, level := range class.Milestones {
			if !r.Has(class.Key, level) {
				return fmt.Errorf("class %s lists a milestone at level %d with no handler", class.Key, level)
			}
		}
	}
	return nil
}

// Default returns the registry for the bundled rule tables
func Default() *Registry {
	return NewRegistry().
		Register("bard", 3, BardCollege).
		Register("bard", 10, Expertise(2)).
		Register("cleric", 1, DivineDomain).
		Register("fighter", 6, AbilityScoreImprovement).
		Register("fighter", 14, AbilityScoreImprovement).
		Register("monk", 14, DiamondSoul).
		Register("rogue", 1, Expertise(2)).
		Register("rogue", 6, Expertise(2)).
		Register("rogue", 10, AbilityScoreImprovement).
		Register("rogue", 15, SlipperyMind)
}
