package milestones

import (
	"context"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-sheet/internal/prompt"
)

// ChooseProficiencies grants up to n new skill proficiencies from pool. Skills the
// character already has are rejected with "already proficient". When fewer than n
// pool skills are left only those are asked for, and none at all skips the prompt.
func ChooseProficiencies(ctx context.Context, c *character.Character, chooser prompt.Chooser, title string, pool []shared.Skill, n int) error {
	eligible := 0
	for _, s := range pool {
		if !c.IsProficient(s.Stat()) {
			eligible++
		}
	}
	n = min(n, eligible)
	if n <= 0 {
		return nil
	}

	options := skillLabels(pool)
	picks, err := pickDistinct(ctx, chooser, title, options, n, func(i int) error {
		if c.IsProficient(pool[i].Stat()) {
			return dnderr.InvalidSelectionf("already proficient in %s", pool[i])
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, i := range picks {
		c.AddProficiency(pool[i].Stat())
	}
	return nil
}

// Expertise returns a handler that upgrades n existing skill proficiencies.
// Only skills without expertise are offered; with fewer left than n the
// character upgrades what remains.
func Expertise(n int) Handler {
	return func(ctx context.Context, c *character.Character, chooser prompt.Chooser) error {
		eligible := c.SkillProficiencies()
		count := min(n, len(eligible))
		if count == 0 {
			return nil
		}

		picks, err := pickDistinct(ctx, chooser, "Choose a skill for expertise", skillLabels(eligible), count, nil)
		if err != nil {
			return err
		}
		for _, i := range picks {
			if err := c.AddExpertise(eligible[i].Stat()); err != nil {
				return err
			}
		}
		return nil
	}
}

// SlipperyMind grants proficiency in Wisdom saving throws
func SlipperyMind(_ context.Context, c *character.Character, _ prompt.Chooser) error {
	c.AddProficiency(shared.AttributeWisdom.Stat())
	return nil
}

// DiamondSoul grants proficiency in every saving throw the class does not already cover
func DiamondSoul(_ context.Context, c *character.Character, _ prompt.Chooser) error {
	class, err := c.ClassRules()
	if err != nil {
		return err
	}
	for _, attr := range shared.Attributes {
		if !class.HasSavingThrow(attr) {
			c.AddProficiency(attr.Stat())
		}
	}
	return nil
}

func skillLabels(skills []shared.Skill) []string {
	out := make([]string, len(skills))
	for i, s := range skills {
		out[i] = string(s)
	}
	return out
}
