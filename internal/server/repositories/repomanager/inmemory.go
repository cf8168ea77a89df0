package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/librarium/internal/server/repositories/authors"
	"github.com/dmitrijs2005/librarium/internal/server/repositories/books"
	"github.com/dmitrijs2005/librarium/internal/server/repositories/users"
)

// InMemoryRepositoryManager backs the catalog with maps. Used by tests and
// the -inmemory development mode.
type InMemoryRepositoryManager struct {
	authors authors.Repository
	books   books.Repository
	users   users.Repository
}

func (m *InMemoryRepositoryManager) Conn() *sql.DB {
	return nil
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Authors() authors.Repository {
	return m.authors
}

func (m *InMemoryRepositoryManager) Books() books.Repository {
	return m.books
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{
		authors: authors.NewInMemoryRepository(),
		books:   books.NewInMemoryRepository(),
		users:   users.NewInMemoryRepository(),
	}
}
