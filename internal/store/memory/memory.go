// Package memory implementa core.Store en memoria: driver "memory" para
// desarrollo y doble de test para el resto del repo. No persiste nada.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/littlejohn/internal/security/password"
	"github.com/dropDatabas3/littlejohn/internal/store/core"
)

type Store struct {
	mu      sync.RWMutex
	users   map[string]*core.User         // id -> user
	byName  map[string]string             // lower(username) -> id
	roles   map[string]struct{}           // role name
	members map[string][]string           // user id -> role names (orden de alta)
	clients map[string]*core.Client       // client_id -> client
	refresh map[string]*core.RefreshToken // id -> token
}

func New() *Store {
	return &Store{
		users:   make(map[string]*core.User),
		byName:  make(map[string]string),
		roles:   make(map[string]struct{}),
		members: make(map[string][]string),
		clients: make(map[string]*core.Client),
		refresh: make(map[string]*core.RefreshToken),
	}
}

var _ core.Store = (*Store)(nil)

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return nil, core.ErrNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (s *Store) CheckPassword(hash *string, plain string) bool {
	if hash == nil || *hash == "" {
		return false
	}
	return password.Verify(plain, *hash)
}

func (s *Store) GetUserRoles(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.users[userID]; !ok {
		return nil, core.ErrNotFound
	}
	out := make([]string, len(s.members[userID]))
	copy(out, s.members[userID])
	return out, nil
}

func (s *Store) CreateUser(ctx context.Context, in core.CreateUserInput) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(strings.TrimSpace(in.Username))
	if key == "" {
		return nil, core.ErrInvalid
	}
	if _, exists := s.byName[key]; exists {
		return nil, core.ErrConflict
	}
	hash := in.PasswordHash
	u := &core.User{
		ID:            uuid.NewString(),
		Username:      in.Username,
		Email:         in.Email,
		EmailVerified: in.EmailVerified,
		PhoneVerified: in.PhoneVerified,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		PasswordHash:  &hash,
		CreatedAt:     time.Now().UTC(),
	}
	s.users[u.ID] = u
	s.byName[key] = u.ID
	cp := *u
	return &cp, nil
}

func (s *Store) AddUserToRole(ctx context.Context, userID, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return core.ErrNotFound
	}
	if _, ok := s.roles[role]; !ok {
		return core.ErrNotFound
	}
	for _, r := range s.members[userID] {
		if r == role {
			return nil // membresía idempotente
		}
	}
	s.members[userID] = append(s.members[userID], role)
	return nil
}

func (s *Store) EnsureRole(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return core.ErrInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[name] = struct{}{}
	return nil
}

// RoleCount es solo para tests de idempotencia del seeder.
func (s *Store) RoleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.roles)
}

// UserCount es solo para tests.
func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// ClientCount es solo para tests.
func (s *Store) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Store) GetClientByClientID(ctx context.Context, clientID string) (*core.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[clientID]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) CreateClient(ctx context.Context, c core.Client) (*core.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ClientID == "" {
		return nil, core.ErrInvalid
	}
	if _, exists := s.clients[c.ClientID]; exists {
		return nil, core.ErrConflict
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()
	s.clients[c.ClientID] = &c
	cp := c
	return &cp, nil
}

func (s *Store) CreateRefreshToken(ctx context.Context, userID, clientID, tokenHash string, expiresAt time.Time, rotatedFrom *string) (*core.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt := &core.RefreshToken{
		ID:          uuid.NewString(),
		UserID:      userID,
		ClientID:    clientID,
		TokenHash:   tokenHash,
		IssuedAt:    time.Now().UTC(),
		ExpiresAt:   expiresAt,
		RotatedFrom: rotatedFrom,
	}
	s.refresh[rt.ID] = rt
	cp := *rt
	return &cp, nil
}
