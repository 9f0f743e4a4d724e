package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/spaceapp/space-api/internal/core/domain"
	"github.com/spaceapp/space-api/internal/core/ports"
)

func newAuthFixture(t *testing.T) (*stubUserRepo, *AuthService) {
	t.Helper()
	repo := newStubUserRepo()
	users := NewUserService(repo, &stubTx{}, bcrypt.MinCost, zerolog.Nop())
	if _, err := users.Create(context.Background(), ports.CreateUserInput{Username: "carol", Password: "s3cret", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	svc := NewAuthService(repo, "secret", time.Hour)
	svc.now = func() time.Time { return fixedNow }
	return repo, svc
}

func TestAuthService_Authenticate(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	u, err := svc.Authenticate(ctx, "carol", "s3cret")
	if err != nil || u.Username != "carol" || u.Role != domain.RoleAdmin {
		t.Fatalf("unexpected result: %+v (%v)", u, err)
	}

	if _, err := svc.Authenticate(ctx, "carol", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ghost", "s3cret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAuthService_LoginIssuesToken(t *testing.T) {
	_, svc := newAuthFixture(t)

	res, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if !res.ExpiresAt.Equal(fixedNow.Add(time.Hour)) {
		t.Fatalf("unexpected expiry: %v", res.ExpiresAt)
	}
	if res.User.Username != "carol" || res.User.Role != domain.RoleAdmin {
		t.Fatalf("unexpected user: %+v", res.User)
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Subject != "carol" {
		t.Fatalf("expected subject carol, got %q", claims.Subject)
	}
}

func TestAuthService_ResolveTokenReadsCurrentRole(t *testing.T) {
	repo, svc := newAuthFixture(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	repo.users["carol"].Role = domain.RoleStudent

	u, err := svc.ResolveToken(ctx, res.Token)
	if err != nil {
		t.Fatalf("ResolveToken returned error: %v", err)
	}
	if u.Role != domain.RoleStudent {
		t.Fatalf("expected stored role STUDENT, got %s", u.Role)
	}
}

func TestAuthService_ResolveTokenRejects(t *testing.T) {
	repo, svc := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.ResolveToken(ctx, "garbage"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	res, _ := svc.Login(ctx, "carol", "s3cret")

	svc.now = func() time.Time { return fixedNow.Add(2 * time.Hour) }
	if _, err := svc.ResolveToken(ctx, res.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}

	svc.now = func() time.Time { return fixedNow }
	delete(repo.users, "carol")
	if _, err := svc.ResolveToken(ctx, res.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for removed user, got %v", err)
	}

	other := NewAuthService(repo, "another-secret", time.Hour)
	other.now = func() time.Time { return fixedNow }
	if _, err := other.ResolveToken(ctx, res.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign signature, got %v", err)
	}
}
