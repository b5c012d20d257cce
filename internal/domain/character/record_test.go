package character_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
)

func recordedFighter(t *testing.T) *character.Character {
	t.Helper()
	char := newFighter(t)
	char.ID = "5d0c7a52-1111-4c55-9d55-0a8c2a000001"
	char.Level = 6
	char.AddProficiency(shared.SkillAthletics.Stat())
	char.AddProficiency(shared.SkillIntimidation.Stat())
	char.AddProficiency(shared.SkillPerception.Stat())
	require.NoError(t, char.AddExpertise(shared.SkillAthletics.Stat()))
	require.NoError(t, char.Recalculate())
	return char
}

func TestRecord_RoundTrip(t *testing.T) {
	char := recordedFighter(t)

	rec, err := char.ToRecord()
	require.NoError(t, err)
	assert.Equal(t, "Tordek_Stonefist", rec.Slug())
	assert.Equal(t, "6", rec[character.FieldLevel])
	assert.JSONEq(t, `["Athletics","Intimidation","Perception"]`, rec[character.FieldProficiencies])

	loaded, err := character.FromRecord(char.Rules(), rec)
	require.NoError(t, err)
	assert.Equal(t, char, loaded)

	again, err := loaded.ToRecord()
	require.NoError(t, err)
	assert.Equal(t, rec, again)
}

func TestRecord_StaleStatsAreRecalculated(t *testing.T) {
	char := recordedFighter(t)
	rec, err := char.ToRecord()
	require.NoError(t, err)
	stale := map[string]int{}
	require.NoError(t, json.Unmarshal([]byte(rec[character.FieldStats]), &stale))
	for stat := range stale {
		stale[stat] = 9
	}
	raw, err := json.Marshal(stale)
	require.NoError(t, err)
	rec[character.FieldStats] = string(raw)

	loaded, err := character.FromRecord(char.Rules(), rec)
	require.NoError(t, err)
	assert.Equal(t, char.Stats, loaded.Stats)
}

func TestRecord_LegacyWithoutIDOrExpertise(t *testing.T) {
	rec, err := newLevelOne(t).ToRecord()
	require.NoError(t, err)
	delete(rec, character.FieldID)
	delete(rec, character.FieldExpertise)

	loaded, err := character.FromRecord(rulebook.MustDefault(), rec)
	require.NoError(t, err)
	assert.Empty(t, loaded.ID)
	assert.Empty(t, loaded.Expertise)
}

func TestRecord_Corrupt(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		mutate func(character.Record)
	}{
		{"missing stats", character.FieldStats, func(r character.Record) { delete(r, character.FieldStats) }},
		{"missing name", character.FieldName, func(r character.Record) { delete(r, character.FieldName) }},
		{"bad level", character.FieldLevel, func(r character.Record) { r[character.FieldLevel] = "six" }},
		{"level out of range", character.FieldLevel, func(r character.Record) { r[character.FieldLevel] = "21" }},
		{"path name mismatch", character.FieldPathName, func(r character.Record) { r[character.FieldPathName] = "someone_else" }},
		{"unknown class", character.FieldClass, func(r character.Record) { r[character.FieldClass] = "artificer" }},
		{"unknown race", character.FieldRace, func(r character.Record) { r[character.FieldRace] = "orc" }},
		{"unknown background", character.FieldBackground, func(r character.Record) { r[character.FieldBackground] = "pirate" }},
		{"scores not json", character.FieldScores, func(r character.Record) { r[character.FieldScores] = "{'Strength': 14}" }},
		{"score missing", character.FieldScores, func(r character.Record) { r[character.FieldScores] = `{"Strength": 14}` }},
		{"stats incomplete", character.FieldStats, func(r character.Record) { r[character.FieldStats] = `{"Strength": 2}` }},
		{"unknown proficiency", character.FieldProficiencies, func(r character.Record) { r[character.FieldProficiencies] = `["Juggling"]` }},
		{"expertise without proficiency", character.FieldExpertise, func(r character.Record) { r[character.FieldExpertise] = `["Stealth"]` }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := recordedFighter(t).ToRecord()
			require.NoError(t, err)
			tt.mutate(rec)

			_, err = character.FromRecord(rulebook.MustDefault(), rec)
			require.Error(t, err)
			assert.True(t, dnderr.IsCorruptRecord(err), err.Error())
			assert.Equal(t, tt.field, dnderr.GetMeta(err)["field"])
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Tordek", "Tordek"},
		{"Tordek Stonefist", "Tordek_Stonefist"},
		{"  Mialee   of  the  Wood ", "Mialee_of_the_Wood"},
		{"Zoë Åsa", "Zoe_Asa"},
		{"Jozan/../etc", "Jozan_etc"},
		{"half-elf_bard", "half-elf_bard"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, character.Slugify(tt.name), tt.name)
	}
}

func newLevelOne(t *testing.T) *character.Character {
	t.Helper()
	char := newFighter(t)
	require.NoError(t, char.Recalculate())
	return char
}
