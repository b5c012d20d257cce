package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/shared"
)

// CreateTestCharacter creates a level 1 human fighter with derived stats filled in
func CreateTestCharacter(t *testing.T, id, name string) *character.Character {
	t.Helper()

	char := character.New(rulebook.MustDefault(), name)
	char.ID = id
	char.Level = 1
	char.Race = "human"
	char.Class = "fighter"
	char.Background = "soldier"
	char.Scores = map[shared.Attribute]int{
		shared.AttributeStrength:     16,
		shared.AttributeDexterity:    14,
		shared.AttributeConstitution: 15,
		shared.AttributeIntelligence: 10,
		shared.AttributeWisdom:       12,
		shared.AttributeCharisma:     8,
	}
	char.AddProficiency(shared.SkillAthletics.Stat())
	char.AddProficiency(shared.SkillIntimidation.Stat())
	char.AddProficiency(shared.SkillPerception.Stat())
	char.AddProficiency(shared.SkillSurvival.Stat())
	require.NoError(t, char.Recalculate())
	return char
}

// CreateTestRecord creates the stored form of CreateTestCharacter
func CreateTestRecord(t *testing.T, id, name string) character.Record {
	t.Helper()

	rec, err := CreateTestCharacter(t, id, name).ToRecord()
	require.NoError(t, err)
	return rec
}
