package character

import (
	"encoding/json"
	"strconv"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
)

// Record field names. The nested fields hold JSON text.
const (
	FieldID            = "ID"
	FieldName          = "Name"
	FieldPathName      = "Path Name"
	FieldLevel         = "Level"
	FieldClass         = "Class"
	FieldRace          = "Race"
	FieldBackground    = "Background"
	FieldScores        = "Ability scores"
	FieldStats         = "Stats"
	FieldProficiencies = "Proficiencies"
	FieldExpertise     = "Expertise"
)

// RecordFields is the column order used by tabular stores
var RecordFields = []string{
	FieldID, FieldName, FieldPathName, FieldLevel, FieldClass, FieldRace, FieldBackground,
	FieldScores, FieldStats, FieldProficiencies, FieldExpertise,
}

// ID and Expertise were added after the first records were written and may be absent
var requiredFields = []string{
	FieldName, FieldPathName, FieldLevel, FieldClass, FieldRace, FieldBackground,
	FieldScores, FieldStats, FieldProficiencies,
}

// Record is the flat key-value form of a character
type Record map[string]string

// Slug returns the record's path name
func (r Record) Slug() string {
	return r[FieldPathName]
}

// ToRecord flattens the character for storage
func (c *Character) ToRecord() (Record, error) {
	scores, err := json.Marshal(c.Scores)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to encode ability scores")
	}
	stats, err := json.Marshal(c.Stats)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to encode stats")
	}
	profs, err := json.Marshal(c.Proficiencies.Sorted())
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to encode proficiencies")
	}
	expertise, err := json.Marshal(c.Expertise.Sorted())
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to encode expertise")
	}

	return Record{
		FieldID:            c.ID,
		FieldName:          c.Name,
		FieldPathName:      c.Slug,
		FieldLevel:         strconv.Itoa(c.Level),
		FieldClass:         c.Class,
		FieldRace:          c.Race,
		FieldBackground:    c.Background,
		FieldScores:        string(scores),
		FieldStats:         string(stats),
		FieldProficiencies: string(profs),
		FieldExpertise:     string(expertise),
	}, nil
}

// FromRecord rebuilds a character from its flat form. Any missing or malformed
// field yields a corrupt record error carrying the offending field name.
func FromRecord(rules *rulebook.Rulebook, r Record) (*Character, error) {
	for _, field := range requiredFields {
		if _, ok := r[field]; !ok {
			return nil, corrupt(r, field, "field is missing")
		}
	}

	c := New(rules, r[FieldName])
	c.ID = r[FieldID]
	if r[FieldPathName] != c.Slug {
		return nil, corrupt(r, FieldPathName, "does not match name")
	}

	level, err := strconv.Atoi(r[FieldLevel])
	if err != nil || level < 1 || level > rulebook.MaxLevel {
		return nil, corrupt(r, FieldLevel, "must be a level between 1 and 20")
	}
	c.Level = level

	c.Class = r[FieldClass]
	if _, err := rules.Class(c.Class); err != nil {
		return nil, corrupt(r, FieldClass, "unknown class")
	}
	c.Race = r[FieldRace]
	if _, err := rules.Race(c.Race); err != nil {
		return nil, corrupt(r, FieldRace, "unknown race")
	}
	c.Background = r[FieldBackground]
	if _, err := rules.Background(c.Background); err != nil {
		return nil, corrupt(r, FieldBackground, "unknown background")
	}

	var scores map[shared.Attribute]int
	if err := json.Unmarshal([]byte(r[FieldScores]), &scores); err != nil {
		return nil, corrupt(r, FieldScores, err.Error())
	}
	for _, attr := range shared.Attributes {
		score, ok := scores[attr]
		if !ok || score < 1 {
			return nil, corrupt(r, FieldScores, "missing or invalid "+string(attr))
		}
		c.Scores[attr] = score
	}

	var stats map[shared.Stat]int
	if err := json.Unmarshal([]byte(r[FieldStats]), &stats); err != nil {
		return nil, corrupt(r, FieldStats, err.Error())
	}
	for _, stat := range shared.Stats {
		v, ok := stats[stat]
		if !ok {
			return nil, corrupt(r, FieldStats, "missing "+string(stat))
		}
		c.Stats[stat] = v
	}

	if c.Proficiencies, err = decodeStatSet(r[FieldProficiencies]); err != nil {
		return nil, corrupt(r, FieldProficiencies, err.Error())
	}
	if raw, ok := r[FieldExpertise]; ok && raw != "" {
		if c.Expertise, err = decodeStatSet(raw); err != nil {
			return nil, corrupt(r, FieldExpertise, err.Error())
		}
	}
	if !c.Expertise.SubsetOf(c.Proficiencies) {
		return nil, corrupt(r, FieldExpertise, "expertise without proficiency")
	}

	// stored stats may predate the current rule tables
	if err := c.Recalculate(); err != nil {
		return nil, err
	}
	return c, nil
}

func decodeStatSet(raw string) (shared.StatSet, error) {
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, err
	}
	set := shared.NewStatSet()
	for _, name := range names {
		stat, ok := shared.ParseStat(name)
		if !ok {
			return nil, dnderr.InvalidArgumentf("unknown stat %q", name)
		}
		set.Add(stat)
	}
	return set, nil
}

func corrupt(r Record, field, reason string) error {
	return dnderr.CorruptRecordf("corrupt record %q: %s: %s", r[FieldPathName], field, reason).
		WithMeta("field", field).
		WithMeta("slug", r[FieldPathName])
}
