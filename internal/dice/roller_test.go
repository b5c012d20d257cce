package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-sheet/internal/dice"
	mockdice "github.com/KirkDiggler/dnd-sheet/internal/dice/mock"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
)

func TestMockRoller_Roll(t *testing.T) {
	tests := []struct {
		name       string
		setupRolls []int
		count      int
		sides      int
		bonus      int
		wantTotal  int
		wantRolls  []int
		wantErr    bool
	}{
		{
			name:       "single d20 roll",
			setupRolls: []int{15},
			count:      1,
			sides:      20,
			wantTotal:  15,
			wantRolls:  []int{15},
		},
		{
			name:       "2d6+3",
			setupRolls: []int{4, 5},
			count:      2,
			sides:      6,
			bonus:      3,
			wantTotal:  12,
			wantRolls:  []int{4, 5},
		},
		{
			name:       "not enough rolls",
			setupRolls: []int{10},
			count:      2,
			sides:      6,
			wantErr:    true,
		},
		{
			name:       "invalid roll for die size",
			setupRolls: []int{7},
			count:      1,
			sides:      6,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller := mockdice.NewManualMockRoller()
			roller.SetRolls(tt.setupRolls)

			result, err := roller.Roll(tt.count, tt.sides, tt.bonus)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, result.Total)
			assert.Equal(t, tt.wantRolls, result.Rolls)
		})
	}
}

func TestRollAbilityScore_DropsLowest(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{3, 6, 1, 5})

	result, err := dice.RollAbilityScore(roller)

	require.NoError(t, err)
	assert.Equal(t, 14, result.Total)
	assert.Equal(t, []int{3, 6, 5}, result.Rolls)
	assert.Equal(t, []int{1}, result.Dropped)
	assert.Equal(t, "14 [3,6,5] (dropped [1])", result.String())
}

func TestRollAbilityScores(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	for i := 0; i < 6; i++ {
		roller.SetNextRoll(6)
		roller.SetNextRoll(6)
		roller.SetNextRoll(6)
		roller.SetNextRoll(i + 1)
	}

	scores, err := dice.RollAbilityScores(roller)

	require.NoError(t, err)
	require.Len(t, scores, 6)
	for _, s := range scores {
		assert.Equal(t, 18, s.Total)
	}

	_, err = dice.RollAbilityScore(roller)
	assert.Error(t, err, "script exhausted")
}

func TestParseNotation(t *testing.T) {
	tests := []struct {
		notation  string
		wantCount int
		wantSides int
		wantBonus int
		wantErr   bool
	}{
		{notation: "d20", wantCount: 1, wantSides: 20},
		{notation: "2d6+3", wantCount: 2, wantSides: 6, wantBonus: 3},
		{notation: " 1D8-1 ", wantCount: 1, wantSides: 8, wantBonus: -1},
		{notation: "4d6", wantCount: 4, wantSides: 6},
		{notation: "20", wantErr: true},
		{notation: "0d6", wantErr: true},
		{notation: "2d0", wantErr: true},
		{notation: "2d6+", wantErr: true},
		{notation: "101d6", wantErr: true},
		{notation: "xdy", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.notation, func(t *testing.T) {
			count, sides, bonus, err := dice.ParseNotation(tt.notation)
			if tt.wantErr {
				assert.True(t, dnderr.IsInvalidArgument(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, count)
			assert.Equal(t, tt.wantSides, sides)
			assert.Equal(t, tt.wantBonus, bonus)
		})
	}
}

func TestRollString(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{2, 5})

	result, err := dice.RollString(roller, "2d6-1")

	require.NoError(t, err)
	assert.Equal(t, 6, result.Total)
	assert.Equal(t, "6 [2,5] -1", result.String())
}

func TestRandomRoller_BasicFunctionality(t *testing.T) {
	roller := dice.NewRandomRoller()

	result, err := roller.Roll(2, 6, 3)
	require.NoError(t, err)
	assert.Len(t, result.Rolls, 2)
	assert.GreaterOrEqual(t, result.Total, 5)
	assert.LessOrEqual(t, result.Total, 15)

	score, err := dice.RollAbilityScore(roller)
	require.NoError(t, err)
	assert.Len(t, score.Rolls, 3)
	assert.GreaterOrEqual(t, score.Total, 3)
	assert.LessOrEqual(t, score.Total, 18)

	_, err = roller.Roll(0, 6, 0)
	assert.True(t, dnderr.IsInvalidArgument(err))
}
