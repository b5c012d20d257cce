package character

import (
	"github.com/KirkDiggler/dnd-sheet/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
)

// Modifier converts an ability score to its modifier, rounding toward negative infinity
func Modifier(score int) int {
	diff := score - 10
	if diff < 0 && diff%2 != 0 {
		return diff/2 - 1
	}
	return diff / 2
}

// ProficiencyBonus returns 1 + ceil(level / 4)
func ProficiencyBonus(level int) int {
	if level <= 0 {
		return 1
	}
	return 1 + (level+3)/4
}

// ProficiencyBonus returns the bonus for the character's current level
func (c *Character) ProficiencyBonus() int {
	return ProficiencyBonus(c.Level)
}

// Recalculate rebuilds every derived stat from the ability scores, level, proficiencies,
// expertise and class saving throws. Previous derived values are discarded, so calling
// it repeatedly without other changes always yields the same sheet.
func (c *Character) Recalculate() error {
	class, err := c.ClassRules()
	if err != nil {
		return dnderr.Wrap(err, "failed to recalculate stats")
	}

	stats := make(map[shared.Stat]int, len(shared.Stats))
	for _, attr := range shared.Attributes {
		mod := Modifier(c.Scores[attr])
		for _, stat := range c.rules.SkillsFor(attr) {
			stats[stat] = mod
		}
	}

	bonus := c.ProficiencyBonus()
	for stat := range c.Proficiencies {
		if c.Expertise.Has(stat) {
			stats[stat] += 2 * bonus
		} else {
			stats[stat] += bonus
		}
	}

	// class saving throws stack with any proficiency in the same slot
	for _, attr := range class.SavingThrows {
		stats[attr.Stat()] += bonus
	}

	c.Stats = stats
	return nil
}
