package handlers

import (
	"errors"
	"net/http"
	"strings"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	httpx "github.com/dropDatabas3/littlejohn/internal/http"
	"github.com/dropDatabas3/littlejohn/internal/jwt"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/store/core"
)

// UserInfoHandler responde el userinfo endpoint a partir de un access token
// Bearer válido. Los claims de identidad (email) salen del store, no del
// token: el access token no los transporta.
type UserInfoHandler struct {
	Issuer *jwt.Issuer
	Users  core.CredentialStore
}

func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Op("oauth.userinfo"))

	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		httpx.WriteError(w, http.StatusMethodNotAllowed, "invalid_request", "Only GET or POST is allowed", codeInvalidRequest)
		return
	}

	raw := bearerToken(r)
	if raw == "" {
		w.Header().Set("WWW-Authenticate", `Bearer realm="userinfo"`)
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing bearer token", codeInvalidClient)
		return
	}

	claims := jwtv5.MapClaims{}
	_, err := jwtv5.ParseWithClaims(raw, claims, h.Issuer.Keyfunc(),
		jwtv5.WithValidMethods([]string{"EdDSA"}),
		jwtv5.WithIssuer(h.Issuer.Iss),
	)
	if err != nil {
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Token validation failed", codeInvalidClient)
		return
	}

	out := map[string]any{}
	sub, _ := claims["sub"].(string)
	out["sub"] = sub
	if v, ok := claims["username"].(string); ok && v != "" {
		out["username"] = v
	}
	if v, ok := claims["name"].(string); ok && v != "" {
		out["name"] = v
	}
	if v, ok := claims["role"]; ok {
		out["role"] = v
	}

	scope, _ := claims["scope"].(string)
	if hasScopeWord(scope, "email") {
		if username, ok := claims["username"].(string); ok && username != "" {
			u, err := h.Users.GetUserByUsername(ctx, username)
			switch {
			case err == nil:
				if u.Email != "" {
					out["email"] = u.Email
					out["email_verified"] = u.EmailVerified
				}
			case errors.Is(err, core.ErrNotFound):
				// usuario borrado después de emitir el token: userinfo sigue
				// respondiendo con lo que el token trae
			default:
				log.Error("user lookup failed", logger.Err(err))
				httpx.WriteError(w, http.StatusInternalServerError, "server_error", "An unexpected error occurred", codeServerError)
				return
			}
		}
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}

func bearerToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func hasScopeWord(scope, want string) bool {
	for _, s := range strings.Fields(scope) {
		if s == want {
			return true
		}
	}
	return false
}
