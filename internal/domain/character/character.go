package character

import (
	"maps"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/shared"
)

// Character is the aggregate root for a character sheet.
//
// Stats is owned by Recalculate and must never be edited directly.
// Expertise is always a subset of Proficiencies.
type Character struct {
	ID         string
	Name       string
	Slug       string
	Level      int
	Race       string
	Class      string
	Background string

	Scores        map[shared.Attribute]int
	Stats         map[shared.Stat]int
	Proficiencies shared.StatSet
	Expertise     shared.StatSet

	rules *rulebook.Rulebook
}

// New creates an empty character bound to a set of rule tables
func New(rules *rulebook.Rulebook, name string) *Character {
	if rules == nil {
		panic("rulebook is required")
	}
	c := &Character{
		Name:  name,
		Slug:  Slugify(name),
		rules: rules,
	}
	c.clearProgress()
	return c
}

// Rules returns the rule tables the character was built with
func (c *Character) Rules() *rulebook.Rulebook {
	return c.rules
}

// Reset discards everything chosen at setup while keeping the character's identity
func (c *Character) Reset() {
	c.Race = ""
	c.Class = ""
	c.Background = ""
	c.clearProgress()
}

func (c *Character) clearProgress() {
	c.Level = 0
	c.Scores = make(map[shared.Attribute]int, len(shared.Attributes))
	for _, attr := range shared.Attributes {
		c.Scores[attr] = 0
	}
	c.Stats = make(map[shared.Stat]int, len(shared.Stats))
	for _, stat := range shared.Stats {
		c.Stats[stat] = 0
	}
	c.Proficiencies = shared.NewStatSet()
	c.Expertise = shared.NewStatSet()
}

// Clone returns a deep copy sharing only the immutable rulebook
func (c *Character) Clone() *Character {
	out := *c
	out.Scores = maps.Clone(c.Scores)
	out.Stats = maps.Clone(c.Stats)
	out.Proficiencies = c.Proficiencies.Clone()
	out.Expertise = c.Expertise.Clone()
	return &out
}

// ClassRules returns the class table entry for the character
func (c *Character) ClassRules() (*rulebook.Class, error) {
	return c.rules.Class(c.Class)
}
