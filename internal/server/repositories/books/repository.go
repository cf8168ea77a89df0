package books

import (
	"context"

	"github.com/dmitrijs2005/librarium/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, book *models.Book) (*models.Book, error)
	GetByID(ctx context.Context, id string) (*models.Book, error)
	// List returns all books, or only books whose genre list contains genre
	// (exact, case-sensitive) when genre is non-empty.
	List(ctx context.Context, genre string) ([]*models.Book, error)
	Count(ctx context.Context) (int, error)
	CountByAuthor(ctx context.Context, authorID string) (int, error)
}
