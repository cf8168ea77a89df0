package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/librarium/internal/common"
	"github.com/dmitrijs2005/librarium/internal/server/models"
)

func TestInMemory_CreateAndLookup(t *testing.T) {
	t.Parallel()
	repo := NewInMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.User{Username: "victor", FavoriteGenre: "refactoring"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "victor", byID.Username)

	byName, err := repo.GetByUsername(ctx, "victor")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
}

func TestInMemory_DuplicateUsername(t *testing.T) {
	t.Parallel()
	repo := NewInMemoryRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{Username: "victor", FavoriteGenre: "x"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{Username: "victor", FavoriteGenre: "y"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestInMemory_NotFound(t *testing.T) {
	t.Parallel()
	repo := NewInMemoryRepository()

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.GetByUsername(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
