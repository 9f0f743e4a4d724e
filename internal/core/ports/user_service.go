package ports

import (
	"context"

	"github.com/spaceapp/space-api/internal/core/domain"
)

// CreateUserInput carries a plaintext password that must only ever reach
// the hashing call.
type CreateUserInput struct {
	Username string
	Password string
	Role     domain.Role
}

// UserRecord is the externally visible user shape. It has no password field.
type UserRecord struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// UserService defines use-case operations for users.
type UserService interface {
	Get(ctx context.Context, id int64) (*UserRecord, error)
	Create(ctx context.Context, in CreateUserInput) (*UserRecord, error)
}
