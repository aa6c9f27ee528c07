package pg

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/littlejohn/internal/store/core"
)

func (s *Store) GetClientByClientID(ctx context.Context, clientID string) (*core.Client, error) {
	const q = `
SELECT id, client_id, client_secret, name, endpoints, grant_types, scopes, created_at
  FROM oauth_client
 WHERE client_id = $1`
	var c core.Client
	err := s.pool.QueryRow(ctx, q, clientID).Scan(
		&c.ID, &c.ClientID, &c.Secret, &c.Name,
		&c.Endpoints, &c.GrantTypes, &c.Scopes, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateClient(ctx context.Context, c core.Client) (*core.Client, error) {
	const q = `
INSERT INTO oauth_client (id, client_id, client_secret, name, endpoints, grant_types, scopes)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at`
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	err := s.pool.QueryRow(ctx, q,
		c.ID, c.ClientID, c.Secret, c.Name, c.Endpoints, c.GrantTypes, c.Scopes,
	).Scan(&c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, core.ErrConflict
		}
		return nil, err
	}
	return &c, nil
}
