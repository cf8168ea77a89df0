package auth

import (
	"context"

	"github.com/dmitrijs2005/librarium/internal/server/models"
)

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// WithCurrentUser returns a child context carrying the authenticated user.
// The value is derived once per request and never mutated afterwards.
func WithCurrentUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// CurrentUser returns the user attached to the request context, or nil for
// an anonymous request.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(currentUserKey).(*models.User)
	return user
}
