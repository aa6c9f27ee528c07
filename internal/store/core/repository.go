// Package core define los tipos y contratos del store.
// Los adapters (pg, memory) implementan estas interfaces; el resto del
// sistema solo habla con ellas.
package core

import (
	"context"
	"time"
)

// CredentialStore es el contrato mínimo que necesita el password grant y el
// seeder. La unicidad de username (case-insensitive) la garantiza el adapter.
type CredentialStore interface {
	// GetUserByUsername busca por username (comparación case-insensitive).
	// Retorna ErrNotFound si no existe.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// CheckPassword verifica el password en claro contra el hash PHC.
	// Intencionalmente costoso (argon2id).
	CheckPassword(hash *string, password string) bool

	// GetUserRoles retorna los nombres de rol del usuario. Orden sin garantía.
	GetUserRoles(ctx context.Context, userID string) ([]string, error)

	// CreateUser da de alta un usuario. ErrConflict si el username ya existe.
	CreateUser(ctx context.Context, in CreateUserInput) (*User, error)

	// AddUserToRole agrega membresía user↔role. Idempotente.
	AddUserToRole(ctx context.Context, userID, role string) error

	// EnsureRole crea el rol si no existe. "ya existe" NO es error.
	EnsureRole(ctx context.Context, name string) error
}

// ClientStore maneja las client applications registradas.
type ClientStore interface {
	// GetClientByClientID retorna ErrNotFound si no existe.
	GetClientByClientID(ctx context.Context, clientID string) (*Client, error)
	CreateClient(ctx context.Context, c Client) (*Client, error)
}

// TokenStore persiste refresh tokens (solo el hash, nunca el token crudo).
type TokenStore interface {
	CreateRefreshToken(ctx context.Context, userID, clientID, tokenHash string, expiresAt time.Time, rotatedFrom *string) (*RefreshToken, error)
}

// Store agrupa los tres contratos; los adapters implementan todo.
type Store interface {
	CredentialStore
	ClientStore
	TokenStore
}
