package rulebook

import (
	"slices"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/shared"
)

// Background grants two skill proficiencies for free at setup
type Background struct {
	Key    string         `yaml:"key"`
	Name   string         `yaml:"name"`
	Skills []shared.Skill `yaml:"skills"`
}

func (b *Background) clone() *Background {
	out := *b
	out.Skills = slices.Clone(b.Skills)
	return &out
}
