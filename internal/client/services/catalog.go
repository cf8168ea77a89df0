// Package services implements the client's application logic on top of
// the API client, the cache and the session manager.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/librarium/internal/client/api"
	"github.com/dmitrijs2005/librarium/internal/client/cache"
	"github.com/dmitrijs2005/librarium/internal/client/models"
	"github.com/dmitrijs2005/librarium/internal/client/session"
	"github.com/dmitrijs2005/librarium/internal/common"
)

var ErrNotAuthenticated = errors.New("not signed in")

// CatalogService is the facade the CLI talks to. Every server result
// flows into the cache through the same merge path, whether it came
// from the client's own mutation or from a pushed event.
type CatalogService struct {
	api       api.Client
	cache     *cache.Store
	session   *session.Manager
	reconnect time.Duration
}

func NewCatalogService(client api.Client, store *cache.Store, sess *session.Manager, reconnect time.Duration) *CatalogService {
	s := &CatalogService{api: client, cache: store, session: sess, reconnect: reconnect}

	// ending a session clears everything personalized
	sess.OnInvalidate(func() {
		client.SetToken("")
		store.Reset()
	})

	return s
}

// Start restores a stored session, if any. The token is trusted until
// the server rejects it.
func (s *CatalogService) Start(ctx context.Context) error {
	if err := s.session.Restore(ctx); err != nil {
		return err
	}
	if token := s.session.Token(); token != "" {
		s.api.SetToken(token)
	}
	return nil
}

// checkSession drops the session when the server declared the token
// invalid. Returns the original error either way.
func (s *CatalogService) checkSession(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrorUnauthorized) && s.session.Authenticated() {
		_ = s.session.Invalidate(ctx)
	}
	return err
}

func (s *CatalogService) Cache() *cache.Store {
	return s.cache
}

func (s *CatalogService) Authenticated() bool {
	return s.session.Authenticated()
}

func (s *CatalogService) Username() string {
	return s.session.Username()
}

func (s *CatalogService) Login(ctx context.Context, username, password string) error {
	token, err := s.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if err := s.session.Login(ctx, token, username); err != nil {
		return err
	}
	s.api.SetToken(token)
	return nil
}

func (s *CatalogService) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

func (s *CatalogService) Register(ctx context.Context, username, favoriteGenre string) (*models.User, error) {
	user, err := s.api.Register(ctx, username, favoriteGenre)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *CatalogService) Me(ctx context.Context) (*models.User, error) {
	user, err := s.api.Me(ctx)
	return user, s.checkSession(ctx, err)
}

// LoadBooks refreshes the allBooks view. An unfiltered load feeds the
// cache; a genre-filtered one goes straight to the server.
func (s *CatalogService) LoadBooks(ctx context.Context, genre string) ([]models.Book, error) {
	books, err := s.api.AllBooks(ctx, genre)
	if err != nil {
		if genre == "" {
			s.cache.SetBooksError(err)
		}
		return nil, s.checkSession(ctx, err)
	}
	if genre == "" {
		s.cache.SetBooks(books)
	}
	return books, nil
}

func (s *CatalogService) LoadAuthors(ctx context.Context) ([]models.Author, error) {
	authors, err := s.api.AllAuthors(ctx)
	if err != nil {
		s.cache.SetAuthorsError(err)
		return nil, s.checkSession(ctx, err)
	}
	s.cache.SetAuthors(authors)
	return authors, nil
}

func (s *CatalogService) LoadGenres(ctx context.Context) ([]string, error) {
	genres, err := s.api.DistinctGenres(ctx)
	if err != nil {
		s.cache.SetGenresError(err)
		return nil, s.checkSession(ctx, err)
	}
	s.cache.SetGenres(genres)
	return genres, nil
}

func (s *CatalogService) AddBook(ctx context.Context, input api.AddBookInput) (*models.Book, error) {
	if !s.session.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	book, err := s.api.AddBook(ctx, input)
	if err != nil {
		return nil, s.checkSession(ctx, err)
	}

	s.cache.ApplyBook(*book)
	return book, nil
}

func (s *CatalogService) EditAuthorBirth(ctx context.Context, name string, setBornTo int) (*models.Author, error) {
	if !s.session.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	author, err := s.api.EditAuthorBirth(ctx, name, setBornTo)
	if err != nil {
		return nil, s.checkSession(ctx, err)
	}
	if author != nil {
		s.cache.PatchAuthorBorn(author.ID, author.Born)
	}
	return author, nil
}

// Recommended returns the books in the signed-in user's favorite
// genre, the way the original start page suggested reading.
func (s *CatalogService) Recommended(ctx context.Context) (string, []models.Book, error) {
	user, err := s.Me(ctx)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrNotAuthenticated
	}

	books, err := s.LoadBooks(ctx, user.FavoriteGenre)
	if err != nil {
		return "", nil, err
	}
	return user.FavoriteGenre, books, nil
}

// Watch keeps a live subscription running until ctx is cancelled,
// folding every pushed book into the cache and redialing after the
// configured interval when the connection drops.
func (s *CatalogService) Watch(ctx context.Context) {
	for {
		events, err := s.api.SubscribeBookAdded(ctx)
		if err == nil {
			for book := range events {
				s.cache.ApplyBook(book)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.reconnect):
		}
	}
}
