package books

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/librarium/internal/common"
	"github.com/dmitrijs2005/librarium/internal/server/models"
)

type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.Book
	ordered []string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*models.Book)}
}

func cloneBook(b *models.Book) *models.Book {
	c := *b
	c.Genres = slices.Clone(b.Genres)
	return &c
}

func (r *InMemoryRepository) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if book.Title == "" || book.AuthorID == "" {
		return nil, common.ErrorValidation
	}
	if book.ID == "" {
		book.ID = uuid.NewString()
	}

	stored := cloneBook(book)
	r.byID[stored.ID] = stored
	r.ordered = append(r.ordered, stored.ID)

	return cloneBook(stored), nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	book, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneBook(book), nil
}

func (r *InMemoryRepository) List(ctx context.Context, genre string) ([]*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Book
	for _, id := range r.ordered {
		book := r.byID[id]
		if genre != "" && !slices.Contains(book.Genres, genre) {
			continue
		}
		result = append(result, cloneBook(book))
	}
	return result, nil
}

func (r *InMemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

func (r *InMemoryRepository) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, book := range r.byID {
		if book.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}
