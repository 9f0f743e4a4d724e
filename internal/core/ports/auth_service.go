package ports

import (
	"context"
	"time"

	"github.com/spaceapp/space-api/internal/core/domain"
)

// LoginResult is returned by AuthService.Login.
type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      UserRecord `json:"user"`
}

// AuthService authenticates callers. Every method returns the stored User,
// so the role in effect is always the one persisted at request time.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	ResolveToken(ctx context.Context, token string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}
