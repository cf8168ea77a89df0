package authors

import (
	"context"

	"github.com/dmitrijs2005/librarium/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, author *models.Author) (*models.Author, error)
	GetByID(ctx context.Context, id string) (*models.Author, error)
	// FindByNameFold looks up an author by case-insensitive full-name match.
	// A substring match is not enough: "Tolkien" must not find "JR Tolkien".
	FindByNameFold(ctx context.Context, name string) (*models.Author, error)
	List(ctx context.Context) ([]*models.Author, error)
	Count(ctx context.Context) (int, error)
	SetBorn(ctx context.Context, id string, born int) (*models.Author, error)
}
