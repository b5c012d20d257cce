package character

import (
	"github.com/KirkDiggler/dnd-sheet/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
)

// MaxAbilityScore caps ability increases. Scores entered at setup are not capped.
const MaxAbilityScore = 20

// EnterScore records a raw ability score and adds the race bonus for it
func (c *Character) EnterScore(attr shared.Attribute, raw int) error {
	race, err := c.rules.Race(c.Race)
	if err != nil {
		return dnderr.Wrapf(err, "failed to enter %s score", attr)
	}
	c.Scores[attr] = raw + race.Bonus(attr)
	return nil
}

// CanIncrease reports whether the attribute is below the cap
func (c *Character) CanIncrease(attr shared.Attribute) bool {
	return c.Scores[attr] < MaxAbilityScore
}

// IncreaseScore adds one to an ability score. The score is left untouched
// when the increase would pass the cap.
func (c *Character) IncreaseScore(attr shared.Attribute) error {
	if !c.CanIncrease(attr) {
		return dnderr.AbilityCapExceededf("%s cannot exceed %d", attr, MaxAbilityScore).
			WithMeta("attribute", string(attr)).
			WithMeta("score", c.Scores[attr])
	}
	c.Scores[attr]++
	return nil
}

// IsProficient reports whether the character is proficient in the stat
func (c *Character) IsProficient(stat shared.Stat) bool {
	return c.Proficiencies.Has(stat)
}

// HasExpertise reports whether the stat receives double proficiency
func (c *Character) HasExpertise(stat shared.Stat) bool {
	return c.Expertise.Has(stat)
}

// AddProficiency grants proficiency and reports whether it was new
func (c *Character) AddProficiency(stat shared.Stat) bool {
	return c.Proficiencies.Add(stat)
}

// AddExpertise upgrades an existing proficiency. Stats the character is not
// proficient in are rejected so expertise stays a subset of proficiencies.
func (c *Character) AddExpertise(stat shared.Stat) error {
	if !c.Proficiencies.Has(stat) {
		return dnderr.InvalidSelectionf("not proficient in %s", stat).
			WithMeta("stat", string(stat))
	}
	if !c.Expertise.Add(stat) {
		return dnderr.InvalidSelectionf("already have expertise in %s", stat).
			WithMeta("stat", string(stat))
	}
	return nil
}

// SkillProficiencies returns proficient skills that have not been upgraded to expertise
func (c *Character) SkillProficiencies() []shared.Skill {
	var out []shared.Skill
	for _, s := range shared.Skills {
		if c.IsProficient(s.Stat()) && !c.HasExpertise(s.Stat()) {
			out = append(out, s)
		}
	}
	return out
}

// CheckInvariants verifies the structural rules every character must satisfy
func (c *Character) CheckInvariants() error {
	if !c.Expertise.SubsetOf(c.Proficiencies) {
		return dnderr.Internalf("expertise is not a subset of proficiencies")
	}
	for stat := range c.Proficiencies {
		if _, ok := shared.ParseStat(string(stat)); !ok {
			return dnderr.Internalf("unknown proficiency %q", stat)
		}
	}
	return nil
}
