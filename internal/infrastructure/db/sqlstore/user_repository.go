package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spaceapp/space-api/internal/core/domain"
)

const userColumns = `id, username, password_hash, role`

// UserRepository implements ports.UserRepository. Usernames are unique at
// the table level.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, role)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		u.Username, u.PasswordHash, string(u.Role),
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Resource: "user", Field: "username", Value: u.Username}
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("user", id)
		}
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}

// FindByUsername matches case-sensitively.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}

func scanUser(s scanner) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &role); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}
