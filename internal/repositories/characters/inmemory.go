package characters

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
)

// InMemoryRepository is an in-memory implementation of the character repository
// Useful for testing and development
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]character.Record
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		records: make(map[string]character.Record),
	}
}

// Save stores a copy of the record
func (r *InMemoryRepository) Save(_ context.Context, record character.Record) error {
	if err := validateSlug(record.Slug()); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[record.Slug()] = maps.Clone(record)
	return nil
}

// Get retrieves a copy of the record
func (r *InMemoryRepository) Get(_ context.Context, slug string) (character.Record, error) {
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[slug]
	if !exists {
		return nil, notFound(slug)
	}
	return maps.Clone(record), nil
}

// List returns the stored path names
func (r *InMemoryRepository) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.records)), nil
}

// Delete removes a record
func (r *InMemoryRepository) Delete(_ context.Context, slug string) error {
	if err := validateSlug(slug); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[slug]; !exists {
		return notFound(slug)
	}
	delete(r.records, slug)
	return nil
}
