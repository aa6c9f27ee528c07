package pg

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/littlejohn/internal/store/core"
)

// CreateRefreshToken: persiste solo el hash, nunca el token crudo.
func (s *Store) CreateRefreshToken(ctx context.Context, userID, clientID, tokenHash string, expiresAt time.Time, rotatedFrom *string) (*core.RefreshToken, error) {
	const q = `
INSERT INTO refresh_token (id, user_id, client_id, token_hash, expires_at, rotated_from)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING issued_at`
	rt := core.RefreshToken{
		ID:          uuid.NewString(),
		UserID:      userID,
		ClientID:    clientID,
		TokenHash:   tokenHash,
		ExpiresAt:   expiresAt,
		RotatedFrom: rotatedFrom,
	}
	if err := s.pool.QueryRow(ctx, q,
		rt.ID, rt.UserID, rt.ClientID, rt.TokenHash, rt.ExpiresAt, rt.RotatedFrom,
	).Scan(&rt.IssuedAt); err != nil {
		return nil, err
	}
	return &rt, nil
}
