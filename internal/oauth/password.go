package oauth

import (
	"context"
	"errors"
	"strings"

	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/store/core"
)

// dummyPHC tiene los mismos parámetros que password.Default. Cuando el
// username no existe igual quemamos una verificación argon2id contra este
// hash para que "usuario inexistente" y "password incorrecto" queden en el
// mismo orden de magnitud de latencia.
var dummyPHC = "$argon2id$v=19$m=65536,t=3,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// PasswordGrant autentica al resource owner y produce un SignInResult.
// No tiene estado entre requests; es seguro invocarlo concurrentemente.
type PasswordGrant struct {
	Credentials core.CredentialStore
	Scopes      ScopeNegotiator
}

func NewPasswordGrant(creds core.CredentialStore) *PasswordGrant {
	return &PasswordGrant{Credentials: creds}
}

// Exchange implementa GrantHandler.
//
// Falla con ErrInvalidCredentials tanto si el usuario no existe como si el
// password no verifica; el caller no puede distinguir los dos casos. Los
// errores del store se reportan como ErrUpstream, nunca como credenciales.
func (h *PasswordGrant) Exchange(ctx context.Context, req TokenRequest, client *core.Client) (*SignInResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("core"),
		logger.Component("oauth.password"),
	)

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := h.Credentials.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			h.Credentials.CheckPassword(&dummyPHC, req.Password)
			log.Debug("user not found")
			return nil, ErrInvalidCredentials
		}
		log.Error("credential store lookup failed", logger.Err(err))
		return nil, upstream(err)
	}

	if !h.Credentials.CheckPassword(user.PasswordHash, req.Password) {
		log.Debug("password check failed", logger.UserID(user.ID))
		return nil, ErrInvalidCredentials
	}

	roles, err := h.Credentials.GetUserRoles(ctx, user.ID)
	if err != nil {
		log.Error("role fetch failed", logger.Err(err), logger.UserID(user.ID))
		return nil, upstream(err)
	}

	principal, err := BuildPrincipal(user, roles)
	if err != nil {
		return nil, err
	}

	requested := req.Scopes
	if len(requested) == 0 {
		requested = DefaultScopeRequest()
	}
	granted := h.Scopes.Grant(requested, client.Scopes)

	log.Info("password grant ok", logger.UserID(user.ID))
	return &SignInResult{Principal: principal, Scopes: granted, Scheme: "Bearer"}, nil
}
