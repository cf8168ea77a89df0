// Package api talks GraphQL to the catalog server: queries and
// mutations over HTTP, the bookAdded subscription over a websocket.
package api

import (
	"context"

	"github.com/dmitrijs2005/librarium/internal/client/models"
)

// AddBookInput carries the arguments of the addBook mutation.
type AddBookInput struct {
	Title     string
	Published *int
	Author    string
	Genres    []string
}

type Client interface {
	Close() error

	// SetToken attaches (or with "" clears) the bearer token sent on
	// every subsequent request.
	SetToken(token string)

	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, favoriteGenre string) (*models.User, error)
	Me(ctx context.Context) (*models.User, error)

	BookCount(ctx context.Context) (int, error)
	AuthorCount(ctx context.Context) (int, error)
	AllBooks(ctx context.Context, genre string) ([]models.Book, error)
	AllAuthors(ctx context.Context) ([]models.Author, error)
	DistinctGenres(ctx context.Context) ([]string, error)

	AddBook(ctx context.Context, input AddBookInput) (*models.Book, error)
	EditAuthorBirth(ctx context.Context, name string, setBornTo int) (*models.Author, error)

	// SubscribeBookAdded delivers books added by anyone, in publish
	// order, until ctx is cancelled or the connection drops. The
	// returned channel is closed on teardown.
	SubscribeBookAdded(ctx context.Context) (<-chan models.Book, error)
}
