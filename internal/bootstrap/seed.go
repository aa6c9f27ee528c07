// Package bootstrap garantiza el estado mínimo del store antes de servir
// tráfico: roles default, usuario default y client application default.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/security/password"
	"github.com/dropDatabas3/littlejohn/internal/store/core"
)

// SeedUser describe el usuario default a garantizar.
type SeedUser struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Role      string // rol al que se agrega el usuario al crearlo
}

// SeedConfig agrupa lo que el seeder garantiza en el store.
type SeedConfig struct {
	Roles  []string // ej: ["Admin", "User"]
	User   SeedUser
	Client core.Client
}

// Seed es idempotente: correrlo dos veces deja exactamente un rol por nombre,
// un usuario default y un client default. Corre una sola vez al startup,
// single-threaded, antes de aceptar requests. Cualquier falla de persistencia
// es fatal: el proceso no debe servir tráfico con un store a medio seedear.
func Seed(ctx context.Context, st core.Store, cfg SeedConfig) error {
	log := logger.L().With(logger.Component("bootstrap.seed"))

	for _, role := range cfg.Roles {
		if err := st.EnsureRole(ctx, role); err != nil && !errors.Is(err, core.ErrConflict) {
			return fmt.Errorf("ensure role %q: %w", role, err)
		}
	}

	if err := seedUser(ctx, st, cfg.User); err != nil {
		return err
	}

	if err := seedClient(ctx, st, cfg.Client); err != nil {
		return err
	}

	log.Info("seed ok")
	return nil
}

// seedUser chequea existencia POR USERNAME. (La versión anterior comparaba
// por id contra un objeto recién construido y nunca persistido, con lo cual
// jamás encontraba match e intentaba crear siempre.)
func seedUser(ctx context.Context, st core.Store, u SeedUser) error {
	_, err := st.GetUserByUsername(ctx, u.Username)
	switch {
	case err == nil:
		return nil // ya existe
	case !errors.Is(err, core.ErrNotFound):
		return fmt.Errorf("lookup default user: %w", err)
	}

	phc, err := password.Hash(password.Default, u.Password)
	if err != nil {
		return fmt.Errorf("hash default user password: %w", err)
	}
	created, err := st.CreateUser(ctx, core.CreateUserInput{
		Username:      u.Username,
		Email:         u.Email,
		EmailVerified: true,
		PhoneVerified: true,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		PasswordHash:  phc,
	})
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil // carrera con otro proceso de seed: alguien ya lo creó
		}
		return fmt.Errorf("create default user: %w", err)
	}

	if err := st.AddUserToRole(ctx, created.ID, u.Role); err != nil {
		return fmt.Errorf("assign default user to role %q: %w", u.Role, err)
	}

	logger.L().Info("default user created",
		logger.Component("bootstrap.seed"),
		logger.UserID(created.ID),
		logger.Role(u.Role),
	)
	return nil
}

func seedClient(ctx context.Context, st core.Store, c core.Client) error {
	_, err := st.GetClientByClientID(ctx, c.ClientID)
	switch {
	case err == nil:
		return nil // ya registrado
	case !errors.Is(err, core.ErrNotFound):
		return fmt.Errorf("lookup default client: %w", err)
	}

	if _, err := st.CreateClient(ctx, c); err != nil && !errors.Is(err, core.ErrConflict) {
		return fmt.Errorf("register default client: %w", err)
	}
	return nil
}
