package books

import (
	"context"
	"database/sql"
	"encoding/json"
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

// genres are stored as a jsonb array to keep entry order.
func marshalGenres(genres []string) ([]byte, error) {
	if genres == nil {
		genres = []string{}
	}
	return json.Marshal(genres)
}

func (r *PostgresRepository) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	if book.Title == "" || book.AuthorID == "" {
		return nil, common.ErrorValidation
	}
	if book.ID == "" {
		book.ID = uuid.NewString()
	}

	genres, err := marshalGenres(book.Genres)
	if err != nil {
		return nil, fmt.Errorf("genres encoding error: %w", err)
	}

	query :=
		`INSERT INTO books (id, title, published, genres, author_id)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	if _, err := r.db.ExecContext(ctx, query,
		book.ID, book.Title, book.Published, genres, book.AuthorID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return book, nil
}

func scanBook(scan func(dest ...any) error) (*models.Book, error) {
	book := &models.Book{}
	var genres []byte
	if err := scan(&book.ID, &book.Title, &book.Published, &genres, &book.AuthorID); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(genres, &book.Genres); err != nil {
		return nil, fmt.Errorf("genres decoding error: %w", err)
	}
	return book, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	query :=
		`SELECT id, title, published, genres, author_id FROM books
		 WHERE id = $1
		 `

	book, err := scanBook(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return book, nil
}

func (r *PostgresRepository) List(ctx context.Context, genre string) ([]*models.Book, error) {
	query :=
		`SELECT id, title, published, genres, author_id FROM books
		 ORDER BY title
		 `
	args := []any{}

	if genre != "" {
		query =
			`SELECT id, title, published, genres, author_id FROM books
			 WHERE genres @> $1
			 ORDER BY title
			 `
		g, err := json.Marshal([]string{genre})
		if err != nil {
			return nil, fmt.Errorf("genres encoding error: %w", err)
		}
		args = append(args, g)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Book
	for rows.Next() {
		book, err := scanBook(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM books WHERE author_id = $1`
	if err := r.db.QueryRowContext(ctx, query, authorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}
