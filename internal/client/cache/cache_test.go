package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/librarium/internal/client/models"
)

func book(id, title string, genres ...string) models.Book {
	return models.Book{
		ID:     id,
		Title:  title,
		Genres: genres,
		Author: models.Author{ID: "a-" + id, Name: "Author " + id, BookCount: 1},
	}
}

func TestMergeBook_AppendsNewBook(t *testing.T) {
	books := []models.Book{book("1", "One")}

	merged := MergeBook(books, book("2", "Two"))

	require.Len(t, merged, 2)
	assert.Equal(t, "Two", merged[1].Title)
	// the input slice is untouched
	assert.Len(t, books, 1)
}

func TestMergeBook_Idempotent(t *testing.T) {
	books := []models.Book{book("1", "One")}

	once := MergeBook(books, book("2", "Two"))
	twice := MergeBook(once, book("2", "Two"))

	assert.Equal(t, once, twice)
	assert.Len(t, twice, 2)
}

func TestMergeGenres(t *testing.T) {
	genres := MergeGenres(nil, book("1", "One", "a", "b"))
	assert.Equal(t, []string{"a", "b"}, genres)

	genres = MergeGenres(genres, book("2", "Two", "b", "c"))
	assert.Equal(t, []string{"a", "b", "c"}, genres)
}

func TestStore_InitialStateIsLoading(t *testing.T) {
	s := NewStore()

	assert.Equal(t, StatusLoading, s.Books().Status)
	assert.Equal(t, StatusLoading, s.Authors().Status)
	assert.Equal(t, StatusLoading, s.Genres().Status)
}

func TestStore_SetAndGet(t *testing.T) {
	s := NewStore()

	s.SetBooks([]models.Book{book("1", "One")})
	result := s.Books()
	assert.Equal(t, StatusReady, result.Status)
	require.Len(t, result.Books, 1)

	failure := errors.New("boom")
	s.SetBooksError(failure)
	result = s.Books()
	assert.Equal(t, StatusError, result.Status)
	assert.Equal(t, failure, result.Err)
}

func TestStore_ApplyBook(t *testing.T) {
	s := NewStore()
	s.SetBooks([]models.Book{book("1", "One")})
	s.SetGenres([]string{"a"})
	s.SetAuthors([]models.Author{{ID: "a-1", Name: "Author 1", BookCount: 1}})

	incoming := book("2", "Two", "a", "b")
	s.ApplyBook(incoming)

	assert.Len(t, s.Books().Books, 2)
	assert.Equal(t, []string{"a", "b"}, s.Genres().Genres)
	assert.Len(t, s.Authors().Authors, 2)

	// duplicate delivery (own mutation + pushed event) is absorbed
	s.ApplyBook(incoming)
	assert.Len(t, s.Books().Books, 2)
}

func TestStore_ApplyBook_UpdatesKnownAuthor(t *testing.T) {
	s := NewStore()
	s.SetAuthors([]models.Author{{ID: "a-1", Name: "Author 1", BookCount: 1}})

	b := book("2", "Two")
	b.Author = models.Author{ID: "a-1", Name: "Author 1", BookCount: 2}
	s.ApplyBook(b)

	authors := s.Authors().Authors
	require.Len(t, authors, 1)
	assert.Equal(t, 2, authors[0].BookCount)
}

func TestStore_ApplyBook_SkipsUnloadedViews(t *testing.T) {
	s := NewStore()

	s.ApplyBook(book("1", "One"))

	// a view that has not been loaded must not invent content
	assert.Equal(t, StatusLoading, s.Books().Status)
	assert.Nil(t, s.Books().Books)
}

func TestStore_PatchAuthorBorn(t *testing.T) {
	s := NewStore()
	s.SetAuthors([]models.Author{{ID: "a-1", Name: "Author 1"}})

	born := 1947
	s.PatchAuthorBorn("a-1", &born)

	authors := s.Authors().Authors
	require.NotNil(t, authors[0].Born)
	assert.Equal(t, 1947, *authors[0].Born)
}

func TestStore_Reset(t *testing.T) {
	s := NewStore()
	s.SetBooks([]models.Book{book("1", "One")})
	s.SetGenres([]string{"a"})

	s.Reset()

	assert.Equal(t, StatusLoading, s.Books().Status)
	assert.Nil(t, s.Books().Books)
	assert.Equal(t, StatusLoading, s.Genres().Status)
}

func TestStore_WatchNotifies(t *testing.T) {
	s := NewStore()
	watcher := s.Watch()

	s.SetBooks([]models.Book{book("1", "One")})

	select {
	case <-watcher:
	default:
		t.Fatal("expected a notification")
	}

	// burst of changes collapses into at least one pending signal
	s.SetGenres([]string{"a"})
	s.Reset()
	select {
	case <-watcher:
	default:
		t.Fatal("expected a notification after burst")
	}
}
