package core

import "time"

type User struct {
	ID            string
	Username      string
	Email         string
	EmailVerified bool
	PhoneVerified bool
	FirstName     string
	LastName      string
	PasswordHash  *string
	CreatedAt     time.Time
}

type Client struct {
	ID         string   `json:"id"`
	ClientID   string   `json:"client_id"`
	Secret     string   `json:"client_secret"`
	Name       string   `json:"name"`
	Endpoints  []string `json:"endpoints"`
	GrantTypes []string `json:"grant_types"`
	Scopes     []string `json:"scopes"`
	CreatedAt  time.Time `json:"created_at"`
}

type RefreshToken struct {
	ID          string
	UserID      string
	ClientID    string
	TokenHash   string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	RotatedFrom *string
	RevokedAt   *time.Time
}

// CreateUserInput es el payload de alta de usuario (el hash PHC se calcula afuera).
type CreateUserInput struct {
	Username      string
	Email         string
	EmailVerified bool
	PhoneVerified bool
	FirstName     string
	LastName      string
	PasswordHash  string
}
