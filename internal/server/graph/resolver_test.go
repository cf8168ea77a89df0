package graph

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/librarium/internal/logging"
	"github.com/dmitrijs2005/librarium/internal/server/auth"
	"github.com/dmitrijs2005/librarium/internal/server/config"
	"github.com/dmitrijs2005/librarium/internal/server/metrics"
	"github.com/dmitrijs2005/librarium/internal/server/models"
	"github.com/dmitrijs2005/librarium/internal/server/pubsub"
	"github.com/dmitrijs2005/librarium/internal/server/repositories/repomanager"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.AccessTokenValidityDuration = time.Hour
	return cfg
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewResolver(
		repomanager.NewInMemoryRepositoryManager(),
		pubsub.NewBroadcaster(),
		logger,
		metrics.Nop{},
		testConfig(),
	)
}

// registerUser creates a fixture account and returns the stored user.
func registerUser(t *testing.T, r *Resolver, username string) *models.User {
	t.Helper()
	user, err := r.CreateUser(context.Background(), username, "refactoring")
	require.NoError(t, err)
	return user
}

func authedCtx(t *testing.T, r *Resolver, username string) context.Context {
	t.Helper()
	user := registerUser(t, r, username)
	return auth.WithCurrentUser(context.Background(), user)
}

func TestAddBook_CreatesAuthorOnFirstUse(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)
	ctx := authedCtx(t, r, "victor")

	book, err := r.AddBook(ctx, AddBookInput{Title: "Foo", Author: "New Author", Genres: []string{"x"}})
	require.NoError(t, err)

	require.NotNil(t, book.Author)
	assert.Equal(t, "New Author", book.Author.Name)
	assert.Nil(t, book.Author.Born)

	count, err := r.AuthorCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	n, err := r.AuthorBookCount(ctx, book.Author.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAddBook_CaseInsensitiveAuthorDedup(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)
	ctx := authedCtx(t, r, "victor")

	first, err := r.AddBook(ctx, AddBookInput{Title: "One", Author: "Ursula Le Guin"})
	require.NoError(t, err)

	second, err := r.AddBook(ctx, AddBookInput{Title: "Two", Author: "URSULA LE GUIN"})
	require.NoError(t, err)

	assert.Equal(t, first.Author.ID, second.Author.ID)
	// the stored casing is not rewritten by later spellings
	assert.Equal(t, "Ursula Le Guin", second.Author.Name)

	count, err := r.AuthorCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddBook_SameAuthorTwiceSharesIdentifier(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)
	ctx := authedCtx(t, r, "victor")

	first, err := r.AddBook(ctx, AddBookInput{Title: "One", Author: "N"})
	require.NoError(t, err)
	second, err := r.AddBook(ctx, AddBookInput{Title: "Two", Author: "N"})
	require.NoError(t, err)

	assert.Equal(t, first.Author.ID, second.Author.ID)
	assert.NotEqual(t, first.ID, second.ID)

	books, err := r.BookCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, books)
}

func TestAddBook_AnchoredMatchDoesNotMergeAuthors(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)
	ctx := authedCtx(t, r, "victor")

	_, err := r.AddBook(ctx, AddBookInput{Title: "Hobbit", Author: "JR Tolkien"})
	require.NoError(t, err)

	// "Tolkien" is a substring of "JR Tolkien" and must create a new author
	book, err := r.AddBook(ctx, AddBookInput{Title: "Letters", Author: "Tolkien"})
	require.NoError(t, err)
	assert.Equal(t, "Tolkien", book.Author.Name)

	count, err := r.AuthorCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAddBook_Unauthenticated(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	_, err := r.AddBook(context.Background(), AddBookInput{Title: "Foo", Author: "A"})

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)

	// no side effects
	books, err2 := r.BookCount(context.Background())
	require.NoError(t, err2)
	assert.Equal(t, 0, books)
	authors, err2 := r.AuthorCount(context.Background())
	require.NoError(t, err2)
	assert.Equal(t, 0, authors)
}

func TestAddBook_ValidationErrorCarriesArguments(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)
	ctx := authedCtx(t, r, "victor")

	// empty title is rejected by the store; the error must carry the input
	_, err := r.AddBook(ctx, AddBookInput{Title: "", Author: "A", Genres: []string{"g"}})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	ext := valErr.Extensions()
	assert.Equal(t, CodeBadUserInput, ext["code"])
	invalidArgs := ext["invalidArgs"].(map[string]interface{})
	assert.Equal(t, "A", invalidArgs["author"])
	assert.Equal(t, []string{"g"}, invalidArgs["genres"])
}

func TestEditAuthorBirth_UpdatesExisting(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)
	ctx := authedCtx(t, r, "victor")

	_, err := r.AddBook(ctx, AddBookInput{Title: "Foo", Author: "Octavia Butler"})
	require.NoError(t, err)

	author, err := r.EditAuthorBirth(ctx, "octavia butler", 1947)
	require.NoError(t, err)
	require.NotNil(t, author)
	require.NotNil(t, author.Born)
	assert.Equal(t, 1947, *author.Born)
}

func TestEditAuthorBirth_UnknownNameIsSoftNoop(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)
	ctx := authedCtx(t, r, "victor")

	author, err := r.EditAuthorBirth(ctx, "Nobody", 1900)
	require.NoError(t, err)
	assert.Nil(t, author)

	// no entity was created
	count, err := r.AuthorCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestEditAuthorBirth_Unauthenticated(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	_, err := r.EditAuthorBirth(context.Background(), "Anyone", 1900)

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
}

func TestDistinctGenres(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)
	ctx := authedCtx(t, r, "victor")

	empty, err := r.DistinctGenres(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = r.AddBook(ctx, AddBookInput{Title: "1", Author: "X", Genres: []string{"a", "b"}})
	require.NoError(t, err)
	_, err = r.AddBook(ctx, AddBookInput{Title: "2", Author: "X", Genres: []string{"b"}})
	require.NoError(t, err)
	_, err = r.AddBook(ctx, AddBookInput{Title: "3", Author: "X"})
	require.NoError(t, err)

	genres, err := r.DistinctGenres(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, genres)
}

func TestAllBooks_GenreFilter(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)
	ctx := authedCtx(t, r, "victor")

	_, err := r.AddBook(ctx, AddBookInput{Title: "1", Author: "X", Genres: []string{"fantasy"}})
	require.NoError(t, err)
	_, err = r.AddBook(ctx, AddBookInput{Title: "2", Author: "X", Genres: []string{"scifi"}})
	require.NoError(t, err)

	all, err := r.AllBooks(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, book := range all {
		require.NotNil(t, book.Author)
		assert.Equal(t, "X", book.Author.Name)
	}

	fantasy, err := r.AllBooks(ctx, "fantasy")
	require.NoError(t, err)
	require.Len(t, fantasy, 1)
	assert.Equal(t, "1", fantasy[0].Title)
}

func TestLogin_Fixture(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)
	registerUser(t, r, "victor")

	token, err := r.Login(context.Background(), "victor", "1234")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)

	_, err = r.Login(context.Background(), "victor", "wrong")
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)

	_, err = r.Login(context.Background(), "ghost", "1234")
	require.ErrorAs(t, err, &authErr)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)
	registerUser(t, r, "victor")

	_, err := r.CreateUser(context.Background(), "victor", "horror")

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "victor", valErr.Extensions()["invalidArgs"].(map[string]interface{})["username"])
}

func TestMe(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	assert.Nil(t, r.Me(context.Background()))

	user := registerUser(t, r, "victor")
	ctx := auth.WithCurrentUser(context.Background(), user)
	got := r.Me(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "victor", got.Username)
}

func TestAddBook_PublishesResolvedBook(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)
	ctx := authedCtx(t, r, "victor")

	subCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := r.SubscribeBookAdded(subCtx)

	created, err := r.AddBook(ctx, AddBookInput{Title: "Foo", Author: "A", Genres: []string{"x"}})
	require.NoError(t, err)

	select {
	case event := <-events:
		book, ok := event.(*ResolvedBook)
		require.True(t, ok)
		assert.Equal(t, created.ID, book.ID)
		require.NotNil(t, book.Author)
		assert.Equal(t, "A", book.Author.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestSubscribe_FutureEventsOnly(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)
	ctx := authedCtx(t, r, "victor")

	_, err := r.AddBook(ctx, AddBookInput{Title: "E1", Author: "A"})
	require.NoError(t, err)

	subCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := r.SubscribeBookAdded(subCtx)

	_, err = r.AddBook(ctx, AddBookInput{Title: "E2", Author: "A"})
	require.NoError(t, err)

	select {
	case event := <-events:
		assert.Equal(t, "E2", event.(*ResolvedBook).Title)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}
