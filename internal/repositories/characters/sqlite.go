package characters

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS characters (
	slug       TEXT PRIMARY KEY,
	record     TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteRepository stores one row per character with the record as JSON text
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) a SQLite character store
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close closes the SQLite handle
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Save upserts the record
func (r *SQLiteRepository) Save(ctx context.Context, record character.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	slug := record.Slug()
	if err := validateSlug(slug); err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO characters (slug, record, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(slug) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		slug, string(data), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save character: %w", err)
	}
	return nil
}

// Get retrieves a record by path name
func (r *SQLiteRepository) Get(ctx context.Context, slug string) (character.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	var data string
	err := r.db.QueryRowContext(ctx, `SELECT record FROM characters WHERE slug = ?`, slug).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(slug)
	}
	if err != nil {
		return nil, fmt.Errorf("get character: %w", err)
	}

	var record character.Record
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeCorruptRecord, fmt.Sprintf("corrupt record %q", slug)).
			WithMeta("slug", slug)
	}
	return record, nil
}

// List returns every stored path name
func (r *SQLiteRepository) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT slug FROM characters ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	slugs := []string{}
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		slugs = append(slugs, slug)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate characters: %w", err)
	}
	return slugs, nil
}

// Delete removes a record
func (r *SQLiteRepository) Delete(ctx context.Context, slug string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateSlug(slug); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM characters WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	if n == 0 {
		return notFound(slug)
	}
	return nil
}
