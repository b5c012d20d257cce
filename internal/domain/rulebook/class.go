package rulebook

import (
	"slices"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/shared"
)

// Class holds the proficiency rules for a character class
type Class struct {
	Key                    string             `yaml:"key"`
	Name                   string             `yaml:"name"`
	SavingThrows           []shared.Attribute `yaml:"saving_throws"`
	ProficiencyChoiceCount int                `yaml:"proficiency_choice_count"`
	ProficiencyPool        []shared.Skill     `yaml:"proficiency_pool"`
	// Milestones are the absolute levels at which a class specific event fires
	Milestones []int `yaml:"milestones"`
}

// HasSavingThrow reports whether the class grants a bonus to the attribute's saving throw
func (c *Class) HasSavingThrow(attr shared.Attribute) bool {
	return slices.Contains(c.SavingThrows, attr)
}

func (c *Class) clone() *Class {
	out := *c
	out.SavingThrows = slices.Clone(c.SavingThrows)
	out.ProficiencyPool = slices.Clone(c.ProficiencyPool)
	out.Milestones = slices.Clone(c.Milestones)
	return &out
}
