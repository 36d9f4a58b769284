package server

import (
	"context"

	"github.com/yourusername/trade-logger/internal/models"
)

type contextKey string

const userContextKey contextKey = "user"

func withUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// userFrom returns the authenticated user attached to the request context by
// the auth middleware. It panics if called on an unauthenticated route.
func userFrom(ctx context.Context) *models.User {
	return ctx.Value(userContextKey).(*models.User)
}
