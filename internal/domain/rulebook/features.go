package rulebook

import (
	"slices"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/shared"
)

// DivineDomain is a cleric's level 1 subclass. Only the skill grants are modelled.
type DivineDomain struct {
	Key              string         `yaml:"key"`
	Name             string         `yaml:"name"`
	SkillChoiceCount int            `yaml:"skill_choice_count"`
	SkillChoices     []shared.Skill `yaml:"skill_choices"`
	// Expertise doubles the proficiency bonus for the chosen skills
	Expertise bool `yaml:"expertise"`
}

// BardCollege is a bard's level 3 subclass
type BardCollege struct {
	Key                string `yaml:"key"`
	Name               string `yaml:"name"`
	BonusProficiencies int    `yaml:"bonus_proficiencies"`
}

func (d *DivineDomain) clone() *DivineDomain {
	out := *d
	out.SkillChoices = slices.Clone(d.SkillChoices)
	return &out
}

func (c *BardCollege) clone() *BardCollege {
	out := *c
	return &out
}
