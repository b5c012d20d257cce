package characters

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
)

const fileExt = ".csv"

// FileRepository keeps one <slug>.csv per character: a header row of field
// names followed by a single row of values
type FileRepository struct {
	dir string
}

// NewFileRepository creates a repository rooted at dir. The directory is
// created on the first save.
func NewFileRepository(dir string) *FileRepository {
	if dir == "" {
		panic("data directory is required")
	}
	return &FileRepository{dir: dir}
}

func (r *FileRepository) path(slug string) string {
	return filepath.Join(r.dir, slug+fileExt)
}

// Save writes the record to a temporary file and renames it into place
func (r *FileRepository) Save(ctx context.Context, record character.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	slug := record.Slug()
	if err := validateSlug(slug); err != nil {
		return err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, slug+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create character file: %w", err)
	}
	defer os.Remove(tmp.Name())

	fields := orderedFields(record)
	values := make([]string, len(fields))
	for i, f := range fields {
		values[i] = record[f]
	}

	w := csv.NewWriter(tmp)
	if err := w.WriteAll([][]string{fields, values}); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write character file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close character file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path(slug)); err != nil {
		return fmt.Errorf("failed to replace character file: %w", err)
	}
	return nil
}

// Get reads a record by path name
func (r *FileRepository) Get(ctx context.Context, slug string) (character.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	f, err := os.Open(r.path(slug))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open character file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, corruptFile(slug, err.Error())
	}
	if len(rows) != 2 {
		return nil, corruptFile(slug, fmt.Sprintf("expected a header and one row, found %d rows", len(rows)))
	}

	header, values := rows[0], rows[1]
	record := make(character.Record, len(header))
	for i, field := range header {
		if _, dup := record[field]; dup {
			return nil, corruptFile(slug, fmt.Sprintf("duplicate column %q", field))
		}
		record[field] = values[i]
	}
	return record, nil
}

// List returns the path names of every .csv file in the data directory
func (r *FileRepository) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	slugs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(e.Name(), fileExt))
	}
	slices.Sort(slugs)
	return slugs, nil
}

// Delete removes the record's file
func (r *FileRepository) Delete(ctx context.Context, slug string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateSlug(slug); err != nil {
		return err
	}

	err := os.Remove(r.path(slug))
	if errors.Is(err, fs.ErrNotExist) {
		return notFound(slug)
	}
	if err != nil {
		return fmt.Errorf("failed to delete character file: %w", err)
	}
	return nil
}

func corruptFile(slug, reason string) error {
	return dnderr.CorruptRecordf("corrupt record %q: %s", slug, reason).
		WithMeta("slug", slug)
}
