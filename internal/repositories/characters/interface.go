package characters

//go:generate mockgen -destination=mock/mock.go -package=mockcharacters -source=interface.go

import (
	"context"
	"slices"
	"strings"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
)

// Repository defines the interface for character record persistence.
// Records are keyed by their path name.
type Repository interface {
	// Save creates or replaces the record
	Save(ctx context.Context, record character.Record) error

	// Get retrieves a record by path name
	Get(ctx context.Context, slug string) (character.Record, error)

	// List returns the path names of every stored record, sorted
	List(ctx context.Context) ([]string, error)

	// Delete removes a record
	Delete(ctx context.Context, slug string) error
}

// validateSlug rejects path names that could not have come from Slugify
func validateSlug(slug string) error {
	if slug == "" {
		return dnderr.InvalidArgument("character path name is required")
	}
	if strings.ContainsAny(slug, `/\`) || slug == "." || slug == ".." {
		return dnderr.InvalidArgumentf("invalid character path name %q", slug).
			WithMeta("slug", slug)
	}
	return nil
}

func notFound(slug string) error {
	return dnderr.NotFoundf("character '%s' not found", slug).
		WithMeta("slug", slug)
}

// orderedFields returns the record's keys in storage order: the known fields
// first, then anything else sorted.
func orderedFields(record character.Record) []string {
	out := make([]string, 0, len(record))
	known := make(map[string]bool, len(character.RecordFields))
	for _, f := range character.RecordFields {
		known[f] = true
		if _, ok := record[f]; ok {
			out = append(out, f)
		}
	}
	var extra []string
	for k := range record {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}
