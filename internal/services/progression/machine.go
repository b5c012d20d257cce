// Package progression advances a character through levels, running ability
// score improvements and class milestones at the levels that grant them.
package progression

import (
	"context"

	"go.uber.org/zap"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/events"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/rulebook"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-sheet/internal/prompt"
	"github.com/KirkDiggler/dnd-sheet/internal/services/milestones"
)

// Machine applies level transitions
type Machine struct {
	registry *milestones.Registry
	events   events.Bus
	logger   *zap.Logger
}

// Config holds the machine's collaborators
type Config struct {
	Registry *milestones.Registry // Optional, defaults to milestones.Default()
	Events   events.Bus           // Optional, nothing is emitted without one
	Logger   *zap.Logger          // Optional
}

// NewMachine creates a progression machine
func NewMachine(cfg *Config) *Machine {
	if cfg == nil {
		cfg = &Config{}
	}
	m := &Machine{
		registry: cfg.Registry,
		events:   cfg.Events,
		logger:   cfg.Logger,
	}
	if m.registry == nil {
		m.registry = milestones.Default()
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	return m
}

// LevelUp advances the character exactly one level and recalculates its stats
func (m *Machine) LevelUp(ctx context.Context, c *character.Character, chooser prompt.Chooser) error {
	if c.Level >= rulebook.MaxLevel {
		return dnderr.InvalidArgumentf("%s is already level %d", c.Name, rulebook.MaxLevel).
			WithMeta("slug", c.Slug)
	}
	return m.LevelTo(ctx, c, c.Level+1, chooser)
}

// LevelTo replays every level from the next one up to target and recalculates
// once at the end. Targeting the current level is a no-op apart from the
// recalculation.
//
// Each level is applied to a copy and kept only once it completes, so a failed
// step leaves the character exactly as it was after the last completed level.
func (m *Machine) LevelTo(ctx context.Context, c *character.Character, target int, chooser prompt.Chooser) error {
	if target < c.Level || target > rulebook.MaxLevel {
		return dnderr.InvalidArgumentf("cannot move %s from level %d to %d", c.Name, c.Level, target).
			WithMeta("slug", c.Slug).
			WithMeta("level", c.Level).
			WithMeta("target", target)
	}

	from := c.Level
	for c.Level < target {
		if err := ctx.Err(); err != nil {
			return err
		}
		next := c.Level + 1
		work := c.Clone()
		if err := m.apply(ctx, work, chooser, next); err != nil {
			return err
		}
		work.Level = next
		if err := m.emit(events.NewEvent(events.OnLevelGained, work, next)); err != nil {
			return err
		}
		*c = *work
		m.logger.Debug("level applied",
			zap.String("slug", c.Slug),
			zap.Int("level", next))
	}

	if err := c.Recalculate(); err != nil {
		return err
	}
	return m.emit(events.NewEvent(events.OnAdvanceCompleted, c, c.Level).
		WithContext(events.ContextFromLevel, from))
}

// apply runs the choices granted at a level; it does not touch derived stats
func (m *Machine) apply(ctx context.Context, c *character.Character, chooser prompt.Chooser, level int) error {
	rules := c.Rules()

	if rules.IsAbilityScoreImprovement(level) {
		m.logger.Info("ability score improvement",
			zap.String("slug", c.Slug),
			zap.Int("level", level))
		if err := milestones.AbilityScoreImprovement(ctx, c, chooser); err != nil {
			return dnderr.Wrapf(err, "failed to apply ability score improvement at level %d", level)
		}
		if err := m.emit(events.NewEvent(events.OnAbilityScoreImprovement, c, level)); err != nil {
			return err
		}
	}

	if rules.IsMilestone(c.Class, level) {
		m.logger.Info("class milestone",
			zap.String("slug", c.Slug),
			zap.String("class", c.Class),
			zap.Int("level", level))
		if err := m.registry.Resolve(ctx, c, chooser, level); err != nil {
			return err
		}
		return m.emit(events.NewEvent(events.OnMilestoneResolved, c, level).
			WithContext(events.ContextClass, c.Class))
	}
	return nil
}

func (m *Machine) emit(event *events.Event) error {
	if m.events == nil {
		return nil
	}
	if err := m.events.Emit(event); err != nil {
		return dnderr.Wrapf(err, "failed to deliver %s for level %d", event.Type, event.Level)
	}
	return nil
}
