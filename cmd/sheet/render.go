package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/shared"
	charService "github.com/KirkDiggler/dnd-sheet/internal/services/character"
)

type tableKind int

const (
	raceKind tableKind = iota
	classKind
	backgroundKind
)

// displayName looks up the table name for a key, falling back to the key itself
func displayName(rules *rulebook.Rulebook, key string, kind tableKind) string {
	var (
		name string
		err  error
	)
	switch kind {
	case raceKind:
		var r *rulebook.Race
		if r, err = rules.Race(key); err == nil {
			name = r.Name
		}
	case classKind:
		var c *rulebook.Class
		if c, err = rules.Class(key); err == nil {
			name = c.Name
		}
	case backgroundKind:
		var b *rulebook.Background
		if b, err = rules.Background(key); err == nil {
			name = b.Name
		}
	}
	if err != nil || name == "" {
		return key
	}
	return name
}

// writeSheet prints the character sheet. Proficient stats are marked with *,
// expertise with **.
func writeSheet(out io.Writer, c *character.Character) error {
	rules := c.Rules()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "%s\t(%s)\n", c.Name, c.Slug)
	fmt.Fprintf(w, "Level %d %s\t%s, %s\n", c.Level,
		displayName(rules, c.Class, classKind),
		displayName(rules, c.Race, raceKind),
		displayName(rules, c.Background, backgroundKind))
	fmt.Fprintf(w, "Proficiency bonus\t%+d\n\n", c.ProficiencyBonus())

	fmt.Fprintln(w, "ABILITY\tSCORE\tMOD\tSAVE\t")
	for _, attr := range shared.Attributes {
		fmt.Fprintf(w, "%s\t%d\t%+d\t%+d%s\t\n", attr, c.Scores[attr],
			character.Modifier(c.Scores[attr]), c.Stats[attr.Stat()], marker(c, attr.Stat()))
	}

	fmt.Fprintln(w, "\nSKILL\tBONUS\t")
	for _, skill := range shared.Skills {
		fmt.Fprintf(w, "%s\t%+d%s\t\n", skill, c.Stats[skill.Stat()], marker(c, skill.Stat()))
	}
	return w.Flush()
}

func marker(c *character.Character, stat shared.Stat) string {
	switch {
	case c.HasExpertise(stat):
		return " **"
	case c.IsProficient(stat):
		return " *"
	default:
		return ""
	}
}

// writeList prints one row per stored record
func writeList(out io.Writer, entries []*charService.Entry) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH NAME\tNAME\tLEVEL\tCLASS\tRACE\t")
	for _, e := range entries {
		if e.Err != nil {
			fmt.Fprintf(w, "%s\t%s\t\t\t\t\n", e.Slug, "unreadable: "+strings.TrimSpace(e.Err.Error()))
			continue
		}
		c := e.Character
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t\n", e.Slug, c.Name, c.Level,
			displayName(c.Rules(), c.Class, classKind),
			displayName(c.Rules(), c.Race, raceKind))
	}
	return w.Flush()
}
