package characters

import (
	"context"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
)

const indexKey = "characters"

// redisRepo stores each record as a hash under character:<slug> and keeps
// the set of path names in an index set
type redisRepo struct {
	client redis.UniversalClient
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}

	return &redisRepo{
		client: cfg.Client,
	}
}

// key generates the Redis key for a character
func (r *redisRepo) key(slug string) string {
	return fmt.Sprintf("character:%s", slug)
}

// Save replaces the hash and indexes the path name
func (r *redisRepo) Save(ctx context.Context, record character.Record) error {
	slug := record.Slug()
	if err := validateSlug(slug); err != nil {
		return err
	}

	fields := orderedFields(record)
	values := make([]interface{}, 0, 2*len(fields))
	for _, f := range fields {
		values = append(values, f, record[f])
	}

	// stale fields must not survive a save
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.key(slug))
	pipe.HSet(ctx, r.key(slug), values...)
	pipe.SAdd(ctx, indexKey, slug)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save character: %w", err)
	}
	return nil
}

// Get retrieves a record by path name
func (r *redisRepo) Get(ctx context.Context, slug string) (character.Record, error) {
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	values, err := r.client.HGetAll(ctx, r.key(slug)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	if len(values) == 0 {
		return nil, notFound(slug)
	}
	return character.Record(values), nil
}

// List returns the indexed path names
func (r *redisRepo) List(ctx context.Context) ([]string, error) {
	slugs, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	slices.Sort(slugs)
	return slugs, nil
}

// Delete removes a record and its index entry
func (r *redisRepo) Delete(ctx context.Context, slug string) error {
	if err := validateSlug(slug); err != nil {
		return err
	}

	deleted, err := r.client.Del(ctx, r.key(slug)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	if err := r.client.SRem(ctx, indexKey, slug).Err(); err != nil {
		return fmt.Errorf("failed to remove character from index: %w", err)
	}
	if deleted == 0 {
		return notFound(slug)
	}
	return nil
}
