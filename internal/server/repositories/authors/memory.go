package authors

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/librarium/internal/common"
	"github.com/dmitrijs2005/librarium/internal/server/models"
)

// InMemoryRepository is a mutex-guarded map implementation used by tests
// and the -inmemory development mode.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.Author
	ordered []string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*models.Author)}
}

func (r *InMemoryRepository) Create(ctx context.Context, author *models.Author) (*models.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if author.Name == "" {
		return nil, common.ErrorValidation
	}
	if author.ID == "" {
		author.ID = uuid.NewString()
	}

	stored := *author
	r.byID[stored.ID] = &stored
	r.ordered = append(r.ordered, stored.ID)

	result := stored
	return &result, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	author, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	result := *author
	return &result, nil
}

func (r *InMemoryRepository) FindByNameFold(ctx context.Context, name string) (*models.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.ordered {
		author := r.byID[id]
		if strings.EqualFold(author.Name, name) {
			result := *author
			return &result, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*models.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Author, 0, len(r.ordered))
	for _, id := range r.ordered {
		author := *r.byID[id]
		result = append(result, &author)
	}
	return result, nil
}

func (r *InMemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

func (r *InMemoryRepository) SetBorn(ctx context.Context, id string, born int) (*models.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	author, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	b := born
	author.Born = &b

	result := *author
	return &result, nil
}
