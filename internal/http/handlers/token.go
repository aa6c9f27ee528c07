// Package handlers expone los http.Handler del servidor: token endpoint,
// userinfo, jwks y probes.
package handlers

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	httpx "github.com/dropDatabas3/littlejohn/internal/http"
	"github.com/dropDatabas3/littlejohn/internal/jwt"
	"github.com/dropDatabas3/littlejohn/internal/oauth"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/rate"
	"github.com/dropDatabas3/littlejohn/internal/store/core"
)

// Códigos de aplicación del token endpoint (además del vocabulario OAuth2).
const (
	codeServerError          = 1001
	codeInvalidRequest       = 1101
	codeInvalidClient        = 1102
	codeInvalidGrant         = 1103
	codeUnsupportedGrantType = 1104
	codeRateLimited          = 1401
)

// TokenHandler maneja POST del token endpoint (form-urlencoded -> JSON).
// El parseo y el mapeo de errores viven acá; la semántica del grant vive en
// el dispatcher y sus handlers.
type TokenHandler struct {
	Clients core.ClientStore
	Grants  *oauth.Dispatcher
	Issuer  *jwt.Issuer

	// Limiter en nil desactiva el rate limit (tests, dev).
	Limiter rate.Limiter

	// DefaultClientID se usa cuando el request no trae client_id, igual que
	// el flujo de primera persona de las apps propias.
	DefaultClientID string
}

func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Op("oauth.token"))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		h.writeOAuthError(w, http.StatusMethodNotAllowed, "invalid_request", "Only POST method is allowed", codeInvalidRequest)
		return
	}

	// 64KB alcanza para cualquier form del protocolo
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := r.ParseForm(); err != nil {
		log.Warn("failed to parse form", logger.Err(err))
		h.writeOAuthError(w, http.StatusBadRequest, "invalid_request", "Invalid form data", codeInvalidRequest)
		return
	}

	grantType := strings.TrimSpace(r.PostForm.Get("grant_type"))
	if grantType == "" {
		httpx.CountTokenRequest(grantType, "invalid_request")
		h.writeOAuthError(w, http.StatusBadRequest, "invalid_request", "grant_type is required", codeInvalidRequest)
		return
	}
	log = log.With(logger.GrantType(grantType))

	username := strings.TrimSpace(r.PostForm.Get("username"))
	clientID := strings.TrimSpace(r.PostForm.Get("client_id"))
	if clientID == "" {
		clientID = h.DefaultClientID
	}

	if !h.allow(w, r, username) {
		httpx.CountTokenRequest(grantType, "rate_limited")
		return
	}

	client, err := h.Clients.GetClientByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			httpx.CountTokenRequest(grantType, "invalid_client")
			h.writeOAuthError(w, http.StatusUnauthorized, "invalid_client", "Client authentication failed", codeInvalidClient)
			return
		}
		log.Error("client lookup failed", logger.Err(err), logger.ClientID(clientID))
		httpx.CountTokenRequest(grantType, "server_error")
		h.writeOAuthError(w, http.StatusInternalServerError, "server_error", "An unexpected error occurred", codeServerError)
		return
	}

	req := oauth.TokenRequest{
		GrantType: grantType,
		Username:  username,
		Password:  r.PostForm.Get("password"),
		Scopes:    strings.Fields(r.PostForm.Get("scope")),
	}

	res, err := h.Grants.Exchange(ctx, req, client)
	if err != nil {
		h.writeExchangeError(w, log, grantType, err)
		return
	}

	resp, err := h.Issuer.Issue(ctx, client.ClientID, res)
	if err != nil {
		log.Error("token issuance failed", logger.Err(err))
		httpx.CountTokenRequest(grantType, "server_error")
		h.writeOAuthError(w, http.StatusInternalServerError, "server_error", "An unexpected error occurred", codeServerError)
		return
	}

	httpx.CountTokenRequest(grantType, "ok")
	setNoStore(w)
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// writeExchangeError mapea la taxonomía del core al vocabulario OAuth2.
// invalid_grant cubre usuario inexistente y password incorrecto con el mismo
// cuerpo: el wire no permite enumerar usernames.
func (h *TokenHandler) writeExchangeError(w http.ResponseWriter, log *zap.Logger, grantType string, err error) {
	switch {
	case errors.Is(err, oauth.ErrUnsupportedGrantType):
		httpx.CountTokenRequest(grantType, "unsupported_grant_type")
		h.writeOAuthError(w, http.StatusBadRequest, "unsupported_grant_type", "Grant type not supported", codeUnsupportedGrantType)
	case errors.Is(err, oauth.ErrInvalidCredentials):
		httpx.CountTokenRequest(grantType, "invalid_grant")
		h.writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "Invalid username or password", codeInvalidGrant)
	default:
		log.Error("token exchange failed", logger.Err(err))
		httpx.CountTokenRequest(grantType, "server_error")
		h.writeOAuthError(w, http.StatusInternalServerError, "server_error", "An unexpected error occurred", codeServerError)
	}
}

func setNoStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

func (h *TokenHandler) writeOAuthError(w http.ResponseWriter, status int, code, desc string, appCode int) {
	setNoStore(w)
	httpx.WriteError(w, status, code, desc, appCode)
}

// allow aplica el rate limit por IP+username. Fail-open: si el backend del
// limiter falla, el request pasa (la disponibilidad del login gana).
func (h *TokenHandler) allow(w http.ResponseWriter, r *http.Request, username string) bool {
	if h.Limiter == nil {
		return true
	}
	key := fmt.Sprintf("token:%s:%s", clientIP(r), strings.ToLower(username))
	res, err := h.Limiter.Allow(r.Context(), key)
	if err != nil {
		logger.From(r.Context()).Warn("rate limiter unavailable", logger.Err(err))
		return true
	}
	if res.Allowed {
		return true
	}
	if res.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(res.RetryAfter.Seconds())))
	}
	h.writeOAuthError(w, http.StatusTooManyRequests, "rate_limited", "demasiadas solicitudes", codeRateLimited)
	return false
}

func clientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
