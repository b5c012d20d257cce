package dice

//go:generate mockgen -destination=mock/mock_roller.go -package=mockdice -source=roller.go

// Roller provides an interface for rolling dice
// This allows us to inject different implementations for testing
type Roller interface {
	// Roll rolls a number of dice with the given sides and adds a bonus
	Roll(count, sides, bonus int) (*RollResult, error)
}

// AbilityScoreDice is the number of d6 rolled for one ability score; the lowest is dropped
const AbilityScoreDice = 4

// RollAbilityScore rolls 4d6 and drops the lowest die
func RollAbilityScore(r Roller) (*RollResult, error) {
	result, err := r.Roll(AbilityScoreDice, 6, 0)
	if err != nil {
		return nil, err
	}
	return result.DropLowest(), nil
}

// RollAbilityScores rolls a full set of six ability scores
func RollAbilityScores(r Roller) ([]*RollResult, error) {
	out := make([]*RollResult, 6)
	for i := range out {
		result, err := RollAbilityScore(r)
		if err != nil {
			return nil, err
		}
		out[i] = result
	}
	return out, nil
}
