//go:build integration
// +build integration

package characters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-sheet/internal/repositories/characters"
	"github.com/KirkDiggler/dnd-sheet/internal/testutils"
)

func TestRedisRepository_Integration(t *testing.T) {
	client := testutils.CreateTestRedisClientOrSkip(t)
	repo := characters.NewRedisRepository(&characters.RedisRepoConfig{Client: client})
	ctx := context.Background()

	rec := testutils.CreateTestRecord(t, "id-1", "Tordek Stonefist")
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Get(ctx, "Tordek_Stonefist")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	// stored records decode into the same character
	char, err := character.FromRecord(testutils.CreateTestCharacter(t, "id-1", "Tordek Stonefist").Rules(), got)
	require.NoError(t, err)
	assert.Equal(t, 1, char.Level)

	slugs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tordek_Stonefist"}, slugs)

	require.NoError(t, repo.Delete(ctx, "Tordek_Stonefist"))
	_, err = repo.Get(ctx, "Tordek_Stonefist")
	assert.True(t, dnderr.IsNotFound(err))
}
