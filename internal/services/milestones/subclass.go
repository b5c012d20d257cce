package milestones

import (
	"context"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-sheet/internal/prompt"
)

// DivineDomain asks a cleric for a domain and applies its skill grant
func DivineDomain(ctx context.Context, c *character.Character, chooser prompt.Chooser) error {
	domains := c.Rules().Domains()
	if len(domains) == 0 {
		return nil
	}
	names := make([]string, len(domains))
	for i, d := range domains {
		names[i] = d.Name
	}

	picks, err := pickDistinct(ctx, chooser, "Choose a divine domain", names, 1, nil)
	if err != nil {
		return err
	}
	return domainSkills(ctx, c, chooser, domains[picks[0]])
}

// domainSkills grants the domain's skill choices. A skill counts as already
// covered when the character has everything the domain would give it.
func domainSkills(ctx context.Context, c *character.Character, chooser prompt.Chooser, d *rulebook.DivineDomain) error {
	covered := func(s shared.Skill) bool {
		if d.Expertise {
			return c.HasExpertise(s.Stat())
		}
		return c.IsProficient(s.Stat())
	}

	eligible := 0
	for _, s := range d.SkillChoices {
		if !covered(s) {
			eligible++
		}
	}
	n := min(d.SkillChoiceCount, eligible)
	if n <= 0 {
		return nil
	}

	picks, err := pickDistinct(ctx, chooser, d.Name+": choose a skill", skillLabels(d.SkillChoices), n, func(i int) error {
		if covered(d.SkillChoices[i]) {
			if d.Expertise {
				return dnderr.InvalidSelectionf("already have expertise in %s", d.SkillChoices[i])
			}
			return dnderr.InvalidSelectionf("already proficient in %s", d.SkillChoices[i])
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, i := range picks {
		stat := d.SkillChoices[i].Stat()
		c.AddProficiency(stat)
		if d.Expertise {
			if err := c.AddExpertise(stat); err != nil {
				return err
			}
		}
	}
	return nil
}

// BardCollege asks a bard for a college, grants its bonus proficiencies and then
// the level 3 expertise
func BardCollege(ctx context.Context, c *character.Character, chooser prompt.Chooser) error {
	colleges := c.Rules().Colleges()
	if len(colleges) > 0 {
		names := make([]string, len(colleges))
		for i, col := range colleges {
			names[i] = col.Name
		}
		picks, err := pickDistinct(ctx, chooser, "Choose a bard college", names, 1, nil)
		if err != nil {
			return err
		}
		college := colleges[picks[0]]
		if college.BonusProficiencies > 0 {
			if err := ChooseProficiencies(ctx, c, chooser, college.Name+": choose a skill", shared.Skills, college.BonusProficiencies); err != nil {
				return err
			}
		}
	}
	return Expertise(2)(ctx, c, chooser)
}
