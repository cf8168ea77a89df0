package authors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/librarium/internal/common"
	"github.com/dmitrijs2005/librarium/internal/dbx"
	"github.com/dmitrijs2005/librarium/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, author *models.Author) (*models.Author, error) {
	if author.ID == "" {
		author.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO authors (id, name, born)
		 VALUES ($1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query, author.ID, author.Name, author.Born); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return author, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Author, error) {
	query :=
		`SELECT id, name, born FROM authors
		 WHERE id = $1
		 `

	author := &models.Author{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&author.ID, &author.Name, &author.Born)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return author, nil
}

func (r *PostgresRepository) FindByNameFold(ctx context.Context, name string) (*models.Author, error) {
	// lower() on both sides keeps the match anchored: the whole stored name
	// must equal the whole argument, only letter case may differ.
	query :=
		`SELECT id, name, born FROM authors
		 WHERE lower(name) = lower($1)
		 `

	author := &models.Author{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&author.ID, &author.Name, &author.Born)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return author, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Author, error) {
	query :=
		`SELECT id, name, born FROM authors
		 ORDER BY name
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Author
	for rows.Next() {
		author := &models.Author{}
		if err := rows.Scan(&author.ID, &author.Name, &author.Born); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, author)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM authors`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) SetBorn(ctx context.Context, id string, born int) (*models.Author, error) {
	query :=
		`UPDATE authors SET born = $2
		 WHERE id = $1
		 RETURNING id, name, born
		 `

	author := &models.Author{}
	err := r.db.QueryRowContext(ctx, query, id, born).Scan(&author.ID, &author.Name, &author.Born)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return author, nil
}
