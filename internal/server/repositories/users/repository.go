package users

import (
	"context"

	"github.com/dmitrijs2005/librarium/internal/server/models"
)

type Repository interface {
	// Create inserts a new user. A duplicate username yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
