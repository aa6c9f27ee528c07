package pg

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/littlejohn/internal/store/core"
)

// GetUserByUsername: lookup case-insensitive (la unicidad la garantiza el
// índice UNIQUE sobre lower(username)).
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	const q = `
SELECT id, username, email, email_verified, phone_verified,
       first_name, last_name, password_hash, created_at
  FROM app_user
 WHERE lower(username) = lower(trim($1))`
	var u core.User
	err := s.pool.QueryRow(ctx, q, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.EmailVerified, &u.PhoneVerified,
		&u.FirstName, &u.LastName, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, in core.CreateUserInput) (*core.User, error) {
	const q = `
INSERT INTO app_user (id, username, email, email_verified, phone_verified,
                      first_name, last_name, password_hash)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at`
	u := core.User{
		ID:            uuid.NewString(),
		Username:      in.Username,
		Email:         in.Email,
		EmailVerified: in.EmailVerified,
		PhoneVerified: in.PhoneVerified,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
	}
	hash := in.PasswordHash
	u.PasswordHash = &hash
	err := s.pool.QueryRow(ctx, q,
		u.ID, u.Username, u.Email, u.EmailVerified, u.PhoneVerified,
		u.FirstName, u.LastName, hash,
	).Scan(&u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, core.ErrConflict
		}
		return nil, err
	}
	return &u, nil
}
