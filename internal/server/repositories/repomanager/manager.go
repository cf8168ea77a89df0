// Package repomanager bundles the catalog repositories behind a single
// interface so services and resolvers do not care which storage backend
// is in use.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/librarium/internal/server/repositories/authors"
	"github.com/dmitrijs2005/librarium/internal/server/repositories/books"
	"github.com/dmitrijs2005/librarium/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Authors() authors.Repository
	Books() books.Repository
	Users() users.Repository
}
