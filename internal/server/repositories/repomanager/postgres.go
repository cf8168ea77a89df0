package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/librarium/internal/server/migrations"
	"github.com/dmitrijs2005/librarium/internal/server/repositories/authors"
	"github.com/dmitrijs2005/librarium/internal/server/repositories/books"
	"github.com/dmitrijs2005/librarium/internal/server/repositories/users"
)

type PostgresRepositoryManager struct {
	db      *sql.DB
	authors authors.Repository
	books   books.Repository
	users   users.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Authors() authors.Repository {
	return m.authors
}

func (m *PostgresRepositoryManager) Books() books.Repository {
	return m.books
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

// RunMigrations sets up goose with the embedded migrations and runs them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, m.db, ".")
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:      db,
		authors: authors.NewPostgresRepository(db),
		books:   books.NewPostgresRepository(db),
		users:   users.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
