package ports

import (
	"context"

	"github.com/spaceapp/space-api/internal/core/domain"
)

type actorKey struct{}

// WithActor returns a copy of ctx carrying the authenticated user.
func WithActor(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, actorKey{}, u)
}

// ActorFrom returns the authenticated user stored in ctx, if any.
func ActorFrom(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(actorKey{}).(*domain.User)
	return u, ok && u != nil
}
