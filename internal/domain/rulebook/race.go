package rulebook

import (
	"github.com/KirkDiggler/dnd-sheet/internal/domain/shared"
)

// Race grants flat bonuses to ability scores as they are entered
type Race struct {
	Key            string                   `yaml:"key"`
	Name           string                   `yaml:"name"`
	AbilityBonuses map[shared.Attribute]int `yaml:"ability_bonuses"`
}

// Bonus returns the race's bonus for the attribute, zero when it grants none
func (r *Race) Bonus(attr shared.Attribute) int {
	return r.AbilityBonuses[attr]
}

func (r *Race) clone() *Race {
	out := *r
	out.AbilityBonuses = make(map[shared.Attribute]int, len(r.AbilityBonuses))
	for k, v := range r.AbilityBonuses {
		out.AbilityBonuses[k] = v
	}
	return &out
}
