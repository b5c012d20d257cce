package character

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/KirkDiggler/dnd-sheet/internal/dice"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-sheet/internal/prompt"
	"github.com/KirkDiggler/dnd-sheet/internal/services/milestones"
)

// Raw scores accepted at setup, before the race bonus is added
const (
	MinRawScore = 1
	MaxRawScore = 20
)

// Setup walks through creating a new character and saves it once
func (s *service) Setup(ctx context.Context, chooser prompt.Chooser) (*character.Character, error) {
	name, err := s.chooseName(ctx, chooser)
	if err != nil {
		return nil, err
	}

	c := character.New(s.rules, name)
	c.ID = s.uuidGenerator.New()

	if err := s.runSetup(ctx, c, chooser); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("character created",
		zap.String("slug", c.Slug),
		zap.String("id", c.ID),
		zap.String("class", c.Class),
		zap.Int("level", c.Level))
	return c, nil
}

// Reset reruns setup on an existing character, keeping its ID and name
func (s *service) Reset(ctx context.Context, slug string, chooser prompt.Chooser) (*character.Character, error) {
	c, err := s.Load(ctx, slug)
	if err != nil {
		return nil, err
	}

	c.Reset()
	if err := s.runSetup(ctx, c, chooser); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("character reset",
		zap.String("slug", c.Slug),
		zap.Int("level", c.Level))
	return c, nil
}

// chooseName asks until the name yields a usable path name that is not taken
func (s *service) chooseName(ctx context.Context, chooser prompt.Chooser) (string, error) {
	for {
		name, err := chooser.Text(ctx, "Character name")
		if err != nil {
			return "", err
		}
		name = strings.TrimSpace(name)
		slug := character.Slugify(name)
		if slug == "" {
			chooser.Warn(ctx, dnderr.InvalidSelection("invalid selection: the name needs at least one letter or digit"))
			continue
		}

		_, err = s.repository.Get(ctx, slug)
		switch {
		case dnderr.IsNotFound(err):
			return name, nil
		case err == nil || dnderr.IsCorruptRecord(err):
			chooser.Warn(ctx, dnderr.AlreadyExistsf("a character saved as %s already exists", slug).WithMeta("slug", slug))
		default:
			return "", dnderr.Wrapf(err, "failed to check name %q", name)
		}
	}
}

// runSetup makes every setup choice on a blank character, then replays the
// levels up to the chosen one. Nothing is saved.
func (s *service) runSetup(ctx context.Context, c *character.Character, chooser prompt.Chooser) error {
	target, err := chooser.Number(ctx, "Starting level", 1, rulebook.MaxLevel)
	if err != nil {
		return err
	}

	race, err := chooseFrom(ctx, chooser, "Choose a race", s.rules.Races(), func(r *rulebook.Race) string { return r.Name })
	if err != nil {
		return err
	}
	c.Race = race.Key

	class, err := chooseFrom(ctx, chooser, "Choose a class", s.rules.Classes(), func(c *rulebook.Class) string { return c.Name })
	if err != nil {
		return err
	}
	c.Class = class.Key

	background, err := chooseFrom(ctx, chooser, "Choose a background", s.rules.Backgrounds(), func(b *rulebook.Background) string { return b.Name })
	if err != nil {
		return err
	}
	c.Background = background.Key
	for _, skill := range background.Skills {
		c.AddProficiency(skill.Stat())
	}

	if err := s.enterScores(ctx, c, chooser); err != nil {
		return err
	}

	title := fmt.Sprintf("%s: choose a skill", class.Name)
	if err := milestones.ChooseProficiencies(ctx, c, chooser, title, class.ProficiencyPool, class.ProficiencyChoiceCount); err != nil {
		return err
	}

	if err := c.Recalculate(); err != nil {
		return err
	}
	return s.machine.LevelTo(ctx, c, target, chooser)
}

// enterScores asks for the six raw scores. With a roller configured a rolled
// set is shown as a suggestion.
func (s *service) enterScores(ctx context.Context, c *character.Character, chooser prompt.Chooser) error {
	hint := ""
	if s.roller != nil {
		rolls, err := dice.RollAbilityScores(s.roller)
		if err != nil {
			return dnderr.Wrap(err, "failed to roll ability scores")
		}
		totals := make([]string, len(rolls))
		for i, r := range rolls {
			totals[i] = fmt.Sprint(r.Total)
		}
		hint = fmt.Sprintf(" (rolled: %s)", strings.Join(totals, ", "))
	}

	for _, attr := range shared.Attributes {
		raw, err := chooser.Number(ctx, fmt.Sprintf("%s score%s", attr, hint), MinRawScore, MaxRawScore)
		if err != nil {
			return err
		}
		if err := c.EnterScore(attr, raw); err != nil {
			return err
		}
	}
	return nil
}

func chooseFrom[T any](ctx context.Context, chooser prompt.Chooser, title string, items []T, label func(T) string) (T, error) {
	var zero T
	options := make([]string, len(items))
	for i, item := range items {
		options[i] = label(item)
	}

	for {
		idx, err := chooser.Choose(ctx, title, options)
		if err != nil {
			return zero, err
		}
		if idx < 1 || idx > len(items) {
			chooser.Warn(ctx, dnderr.InvalidSelectionf("invalid selection: choose between 1 and %d", len(items)))
			continue
		}
		return items[idx-1], nil
	}
}
