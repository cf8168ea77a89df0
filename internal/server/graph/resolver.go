// Package graph implements the GraphQL resolver engine: query, mutation
// and subscription field resolution for the library catalog.
package graph

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/librarium/internal/common"
	"github.com/dmitrijs2005/librarium/internal/logging"
	"github.com/dmitrijs2005/librarium/internal/server/auth"
	"github.com/dmitrijs2005/librarium/internal/server/config"
	"github.com/dmitrijs2005/librarium/internal/server/metrics"
	"github.com/dmitrijs2005/librarium/internal/server/models"
	"github.com/dmitrijs2005/librarium/internal/server/pubsub"
	"github.com/dmitrijs2005/librarium/internal/server/repositories/repomanager"
)

// ResolvedBook is a book with its author relation populated. Mutation
// results, allBooks items, and published events all use this shape, so a
// subscriber sees exactly what the mutator saw.
type ResolvedBook struct {
	ID        string
	Title     string
	Published *int
	Genres    []string
	Author    *models.Author
}

// Token is the payload of a successful login.
type Token struct {
	Value string
}

// AddBookInput carries the addBook mutation arguments.
type AddBookInput struct {
	Title     string
	Published *int
	Author    string
	Genres    []string
}

// Resolver executes catalog operations against the repository manager and
// publishes change events to the notification channel. All dependencies
// are injected; the resolver holds no per-request state (identity travels
// in the request context).
type Resolver struct {
	repos           repomanager.RepositoryManager
	broadcaster     *pubsub.Broadcaster
	logger          logging.Logger
	metrics         metrics.Collector
	jwtSecret       []byte
	tokenValidity   time.Duration
	defaultPassword string
}

func NewResolver(
	repos repomanager.RepositoryManager,
	broadcaster *pubsub.Broadcaster,
	logger logging.Logger,
	collector metrics.Collector,
	cfg *config.Config,
) *Resolver {
	return &Resolver{
		repos:           repos,
		broadcaster:     broadcaster,
		logger:          logger,
		metrics:         collector,
		jwtSecret:       []byte(cfg.SecretKey),
		tokenValidity:   cfg.AccessTokenValidityDuration,
		defaultPassword: cfg.DefaultUserPassword,
	}
}

func (r *Resolver) resolveBook(ctx context.Context, book *models.Book) (*ResolvedBook, error) {
	author, err := r.repos.Authors().GetByID(ctx, book.AuthorID)
	if err != nil {
		return nil, err
	}
	return &ResolvedBook{
		ID:        book.ID,
		Title:     book.Title,
		Published: book.Published,
		Genres:    book.Genres,
		Author:    author,
	}, nil
}

func (r *Resolver) BookCount(ctx context.Context) (int, error) {
	r.metrics.RecordOperation("query")
	return r.repos.Books().Count(ctx)
}

func (r *Resolver) AuthorCount(ctx context.Context) (int, error) {
	r.metrics.RecordOperation("query")
	return r.repos.Authors().Count(ctx)
}

// AllBooks lists the catalog with authors resolved, optionally narrowed to
// books whose genre list contains genre (exact, case-sensitive).
func (r *Resolver) AllBooks(ctx context.Context, genre string) ([]*ResolvedBook, error) {
	r.metrics.RecordOperation("query")

	books, err := r.repos.Books().List(ctx, genre)
	if err != nil {
		return nil, err
	}

	result := make([]*ResolvedBook, 0, len(books))
	for _, book := range books {
		resolved, err := r.resolveBook(ctx, book)
		if err != nil {
			return nil, err
		}
		result = append(result, resolved)
	}
	return result, nil
}

func (r *Resolver) AllAuthors(ctx context.Context) ([]*models.Author, error) {
	r.metrics.RecordOperation("query")
	return r.repos.Authors().List(ctx)
}

// AuthorBookCount recomputes the number of books referencing the author.
// It is derived on every read, never stored.
func (r *Resolver) AuthorBookCount(ctx context.Context, authorID string) (int, error) {
	return r.repos.Books().CountByAuthor(ctx, authorID)
}

// DistinctGenres returns the deduplicated union of every book's genre
// list. An empty catalog yields an empty slice.
func (r *Resolver) DistinctGenres(ctx context.Context) ([]string, error) {
	r.metrics.RecordOperation("query")

	books, err := r.repos.Books().List(ctx, "")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	genres := []string{}
	for _, book := range books {
		for _, genre := range book.Genres {
			if _, ok := seen[genre]; ok {
				continue
			}
			seen[genre] = struct{}{}
			genres = append(genres, genre)
		}
	}
	return genres, nil
}

// Me returns the user from the request context, or nil for an anonymous
// request. It never errors.
func (r *Resolver) Me(ctx context.Context) *models.User {
	r.metrics.RecordOperation("query")
	return auth.CurrentUser(ctx)
}

// AddBook creates a book for the authenticated user, reusing an existing
// author when one matches the given name case-insensitively (full-string
// match), or creating a new author otherwise. The event is published only
// after the book is persisted.
func (r *Resolver) AddBook(ctx context.Context, input AddBookInput) (*ResolvedBook, error) {
	r.metrics.RecordOperation("mutation")

	if auth.CurrentUser(ctx) == nil {
		r.metrics.RecordAuthFailure()
		return nil, NewAuthenticationError("not authenticated")
	}

	invalidArgs := map[string]interface{}{
		"title":     input.Title,
		"published": input.Published,
		"author":    input.Author,
		"genres":    input.Genres,
	}

	author, err := r.repos.Authors().FindByNameFold(ctx, input.Author)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		// first book by this author: create it with the exact spelling
		// given, no birth year
		author, err = r.repos.Authors().Create(ctx, &models.Author{Name: input.Author})
		if err != nil {
			return nil, NewValidationError(err.Error(), invalidArgs)
		}
	}

	book, err := r.repos.Books().Create(ctx, &models.Book{
		Title:     input.Title,
		Published: input.Published,
		Genres:    input.Genres,
		AuthorID:  author.ID,
	})
	if err != nil {
		return nil, NewValidationError(err.Error(), invalidArgs)
	}

	resolved := &ResolvedBook{
		ID:        book.ID,
		Title:     book.Title,
		Published: book.Published,
		Genres:    book.Genres,
		Author:    author,
	}

	r.broadcaster.Publish(resolved)
	r.metrics.RecordBookAdded()
	r.metrics.RecordEventPublished()
	r.logger.Info(ctx, "book added", "title", book.Title, "author", author.Name)

	return resolved, nil
}

// EditAuthorBirth sets the author's birth year. An unknown name is a soft
// no-op returning nil, unlike addBook which creates the missing author.
func (r *Resolver) EditAuthorBirth(ctx context.Context, name string, setBornTo int) (*models.Author, error) {
	r.metrics.RecordOperation("mutation")

	if auth.CurrentUser(ctx) == nil {
		r.metrics.RecordAuthFailure()
		return nil, NewAuthenticationError("not authenticated")
	}

	author, err := r.repos.Authors().FindByNameFold(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}

	updated, err := r.repos.Authors().SetBorn(ctx, author.ID, setBornTo)
	if err != nil {
		return nil, NewValidationError(err.Error(), map[string]interface{}{
			"name":      name,
			"setBornTo": setBornTo,
		})
	}
	return updated, nil
}

// CreateUser registers a user. The account password is the configured
// default; the schema takes no password argument.
func (r *Resolver) CreateUser(ctx context.Context, username, favoriteGenre string) (*models.User, error) {
	r.metrics.RecordOperation("mutation")

	hash, err := auth.HashPassword(r.defaultPassword)
	if err != nil {
		return nil, err
	}

	user, err := r.repos.Users().Create(ctx, &models.User{
		Username:      username,
		FavoriteGenre: favoriteGenre,
		PasswordHash:  hash,
	})
	if err != nil {
		return nil, NewValidationError(err.Error(), map[string]interface{}{
			"username": username,
		})
	}
	return user, nil
}

// Login verifies the credentials and issues a signed session token.
func (r *Resolver) Login(ctx context.Context, username, password string) (*Token, error) {
	r.metrics.RecordOperation("mutation")

	user, err := r.repos.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			r.metrics.RecordAuthFailure()
			return nil, NewAuthenticationError("invalid user or password")
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		r.metrics.RecordAuthFailure()
		return nil, NewAuthenticationError("invalid user or password")
	}

	value, err := auth.GenerateToken(user.ID, r.jwtSecret, r.tokenValidity)
	if err != nil {
		return nil, err
	}
	return &Token{Value: value}, nil
}

// SubscribeBookAdded registers a subscriber on the notification channel
// scoped to ctx. Only events published after the call are delivered.
func (r *Resolver) SubscribeBookAdded(ctx context.Context) <-chan any {
	r.metrics.RecordOperation("subscription")

	events := r.broadcaster.Subscribe(ctx)
	r.metrics.SetSubscribers(r.broadcaster.Subscribers())

	go func() {
		<-ctx.Done()
		r.metrics.SetSubscribers(r.broadcaster.Subscribers())
	}()

	return events
}
