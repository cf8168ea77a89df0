// Package cache keeps the client's view of the catalog between
// requests. Entries are tagged with an explicit status so views can
// distinguish "not loaded yet" from "loaded and empty" from "failed".
package cache

import (
	"sync"

	"github.com/dmitrijs2005/librarium/internal/client/models"
)

// Status tags a cache entry.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// BooksResult is the tagged allBooks view.
type BooksResult struct {
	Status Status
	Books  []models.Book
	Err    error
}

// AuthorsResult is the tagged allAuthors view.
type AuthorsResult struct {
	Status  Status
	Authors []models.Author
	Err     error
}

// GenresResult is the tagged distinctGenres view.
type GenresResult struct {
	Status Status
	Genres []string
	Err    error
}

// MergeBook returns books with b appended, unless a book with the same
// ID is already present, in which case books is returned unchanged.
// The input slice is never mutated. Applying the same event twice is a
// no-op, so the own-mutation result and the pushed notification for
// the same book can both go through this path safely.
func MergeBook(books []models.Book, b models.Book) []models.Book {
	for _, existing := range books {
		if existing.ID == b.ID {
			return books
		}
	}
	merged := make([]models.Book, 0, len(books)+1)
	merged = append(merged, books...)
	return append(merged, b)
}

// MergeGenres folds the genres of b into the first-seen-order genre
// list, skipping ones already present.
func MergeGenres(genres []string, b models.Book) []string {
	merged := genres
	for _, genre := range b.Genres {
		seen := false
		for _, existing := range merged {
			if existing == genre {
				seen = true
				break
			}
		}
		if !seen {
			merged = append(append([]string(nil), merged...), genre)
		}
	}
	return merged
}

// Store holds the tagged views and notifies watchers on every change.
type Store struct {
	mu      sync.RWMutex
	books   BooksResult
	authors AuthorsResult
	genres  GenresResult

	watcherMu sync.Mutex
	watchers  []chan struct{}
}

func NewStore() *Store {
	return &Store{
		books:   BooksResult{Status: StatusLoading},
		authors: AuthorsResult{Status: StatusLoading},
		genres:  GenresResult{Status: StatusLoading},
	}
}

// Watch returns a channel that receives a signal after every store
// change. Notifications are collapsed: a slow watcher sees at least
// one signal for any burst of changes.
func (s *Store) Watch() <-chan struct{} {
	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()
	ch := make(chan struct{}, 1)
	s.watchers = append(s.watchers, ch)
	return ch
}

func (s *Store) notify() {
	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()
	for _, ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Store) Books() BooksResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.books
}

func (s *Store) Authors() AuthorsResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authors
}

func (s *Store) Genres() GenresResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.genres
}

func (s *Store) SetBooks(books []models.Book) {
	s.mu.Lock()
	s.books = BooksResult{Status: StatusReady, Books: books}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetBooksError(err error) {
	s.mu.Lock()
	s.books = BooksResult{Status: StatusError, Err: err}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetAuthors(authors []models.Author) {
	s.mu.Lock()
	s.authors = AuthorsResult{Status: StatusReady, Authors: authors}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetAuthorsError(err error) {
	s.mu.Lock()
	s.authors = AuthorsResult{Status: StatusError, Err: err}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetGenres(genres []string) {
	s.mu.Lock()
	s.genres = GenresResult{Status: StatusReady, Genres: genres}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetGenresError(err error) {
	s.mu.Lock()
	s.genres = GenresResult{Status: StatusError, Err: err}
	s.mu.Unlock()
	s.notify()
}

// ApplyBook folds one new book into the ready views. The same call
// serves both the result of the client's own addBook mutation and a
// pushed bookAdded event; duplicate deliveries are absorbed by
// MergeBook. Views still loading or in error are left alone.
func (s *Store) ApplyBook(b models.Book) {
	s.mu.Lock()

	if s.books.Status == StatusReady {
		s.books.Books = MergeBook(s.books.Books, b)
	}
	if s.genres.Status == StatusReady {
		s.genres.Genres = MergeGenres(s.genres.Genres, b)
	}
	if s.authors.Status == StatusReady {
		s.applyAuthorLocked(b.Author)
	}

	s.mu.Unlock()
	s.notify()
}

func (s *Store) applyAuthorLocked(author models.Author) {
	for i, existing := range s.authors.Authors {
		if existing.ID == author.ID {
			s.authors.Authors[i] = author
			return
		}
	}
	s.authors.Authors = append(s.authors.Authors, author)
}

// PatchAuthorBorn updates the cached birth year of one author.
func (s *Store) PatchAuthorBorn(authorID string, born *int) {
	s.mu.Lock()
	if s.authors.Status == StatusReady {
		for i := range s.authors.Authors {
			if s.authors.Authors[i].ID == authorID {
				s.authors.Authors[i].Born = born
				break
			}
		}
	}
	s.mu.Unlock()
	s.notify()
}

// Reset drops every view back to the loading state. Used on logout so
// nothing personalized survives the session.
func (s *Store) Reset() {
	s.mu.Lock()
	s.books = BooksResult{Status: StatusLoading}
	s.authors = AuthorsResult{Status: StatusLoading}
	s.genres = GenresResult{Status: StatusLoading}
	s.mu.Unlock()
	s.notify()
}
