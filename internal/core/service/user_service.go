package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/spaceapp/space-api/internal/core/domain"
	"github.com/spaceapp/space-api/internal/core/ports"
)

const userEntity = "user"

// UserService implements ports.UserService.
type UserService struct {
	users      ports.UserRepository
	tx         ports.Transactor
	bcryptCost int
	logger     zerolog.Logger
	collaborators
}

// NewUserService returns a UserService hashing with bcryptCost. Values
// outside bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewUserService(users ports.UserRepository, tx ports.Transactor, bcryptCost int, logger zerolog.Logger, opts ...Option) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		users:         users,
		tx:            tx,
		bcryptCost:    bcryptCost,
		logger:        logger,
		collaborators: newCollaborators(opts),
	}
}

func (s *UserService) Get(ctx context.Context, id int64) (*ports.UserRecord, error) {
	var out *ports.UserRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		out = toUserRecord(u)
		return nil
	})
	return out, err
}

// Create hashes the password before anything is persisted. Username
// uniqueness is left to the repository, which reports *domain.ConflictError.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*ports.UserRecord, error) {
	u := &domain.User{Username: in.Username, Role: in.Role}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, domain.Invalid("password", "is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.users.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, s.logger, userEntity, "create", u.ID, map[string]any{"username": u.Username, "role": string(u.Role)})
	s.logger.Info().Int64("user_id", u.ID).Str("username", u.Username).Str("role", string(u.Role)).Msg("user created")

	return toUserRecord(u), nil
}

func toUserRecord(u *domain.User) *ports.UserRecord {
	return &ports.UserRecord{ID: u.ID, Username: u.Username, Role: u.Role}
}
