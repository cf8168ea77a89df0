package books

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/librarium/internal/common"
	"github.com/dmitrijs2005/librarium/internal/server/models"
)

func addBook(t *testing.T, repo *InMemoryRepository, title, authorID string, genres ...string) *models.Book {
	t.Helper()
	b, err := repo.Create(context.Background(), &models.Book{Title: title, AuthorID: authorID, Genres: genres})
	require.NoError(t, err)
	return b
}

func TestInMemory_ListFiltersByGenre(t *testing.T) {
	t.Parallel()
	repo := NewInMemoryRepository()

	addBook(t, repo, "A", "a1", "fantasy", "classic")
	addBook(t, repo, "B", "a1", "scifi")
	addBook(t, repo, "C", "a2")

	all, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	fantasy, err := repo.List(context.Background(), "fantasy")
	require.NoError(t, err)
	require.Len(t, fantasy, 1)
	assert.Equal(t, "A", fantasy[0].Title)

	// genre match is case-sensitive
	none, err := repo.List(context.Background(), "Fantasy")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInMemory_CountByAuthor(t *testing.T) {
	t.Parallel()
	repo := NewInMemoryRepository()

	addBook(t, repo, "A", "a1")
	addBook(t, repo, "B", "a1")
	addBook(t, repo, "C", "a2")

	n, err := repo.CountByAuthor(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.CountByAuthor(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestInMemory_CreateValidation(t *testing.T) {
	t.Parallel()
	repo := NewInMemoryRepository()

	_, err := repo.Create(context.Background(), &models.Book{Title: "No Author"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = repo.Create(context.Background(), &models.Book{AuthorID: "a1"})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestInMemory_ClonesAreIndependent(t *testing.T) {
	t.Parallel()
	repo := NewInMemoryRepository()

	created := addBook(t, repo, "A", "a1", "fantasy")
	created.Genres[0] = "mutated"

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"fantasy"}, got.Genres)
}
