package ports

import (
	"context"

	"github.com/spaceapp/space-api/internal/core/domain"
)

// UserRepository persists users. Username uniqueness is enforced here and
// surfaces as *domain.ConflictError.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
