// Package jwt firma el resultado de un sign-in y lo convierte en la
// respuesta de transporte del token endpoint.
package jwt

import (
	"context"
	"crypto/ed25519"
	"errors"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/littlejohn/internal/oauth"
	tokens "github.com/dropDatabas3/littlejohn/internal/security/token"
	"github.com/dropDatabas3/littlejohn/internal/store/core"
)

// TokenResponse es la respuesta estándar OAuth2 del token endpoint.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// Issuer serializa un SignInResult en un access token EdDSA firmado más,
// si offline_access fue otorgado, un refresh token opaco persistido (hash)
// en el token store. Los TTL vienen de configuración, no están hardcodeados.
type Issuer struct {
	Iss        string
	Keys       *KeySet
	Tokens     core.TokenStore
	AccessTTL  time.Duration // ej: 30m
	RefreshTTL time.Duration // ej: 168h
}

func NewIssuer(iss string, ks *KeySet, ts core.TokenStore, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		Iss:        iss,
		Keys:       ks,
		Tokens:     ts,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
}

var errNoSubject = errors.New("principal without subject claim")

// Issue consume el SignInResult. Solo los claims con destino access token se
// embeben en el JWT; un claim sin destino se descarta.
func (i *Issuer) Issue(ctx context.Context, clientID string, res *oauth.SignInResult) (*TokenResponse, error) {
	if res == nil || res.Principal == nil {
		return nil, oauth.ErrInvalidArgument
	}
	sub, ok := res.Principal.First(oauth.ClaimSubject)
	if !ok || sub == "" {
		return nil, errNoSubject
	}

	now := time.Now().UTC()
	exp := now.Add(i.AccessTTL)

	claims := jwtv5.MapClaims{
		"iss": i.Iss,
		"sub": sub,
		"aud": clientID,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": exp.Unix(),
	}

	var roles []string
	for _, c := range res.Principal.Claims {
		if !c.DestinedFor(oauth.DestAccessToken) {
			continue
		}
		switch c.Type {
		case oauth.ClaimSubject:
			// ya seteado arriba
		case oauth.ClaimRole:
			roles = append(roles, c.Value)
		default:
			claims[c.Type] = c.Value
		}
	}
	if len(roles) > 0 {
		claims["role"] = roles
	}
	if len(res.Scopes) > 0 {
		claims["scope"] = strings.Join(res.Scopes, " ")
	}

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, claims)
	tk.Header["kid"] = i.Keys.KID
	tk.Header["typ"] = "JWT"

	access, err := tk.SignedString(i.Keys.Priv)
	if err != nil {
		return nil, err
	}

	out := &TokenResponse{
		AccessToken: access,
		TokenType:   res.Scheme,
		ExpiresIn:   int64(time.Until(exp).Seconds()),
		Scope:       strings.Join(res.Scopes, " "),
	}

	// refresh token solo si offline_access fue otorgado
	if oauth.HasScope(res.Scopes, oauth.ScopeOfflineAccess) {
		rawRT, err := tokens.GenerateOpaqueToken(32)
		if err != nil {
			return nil, err
		}
		hash := tokens.SHA256Base64URL(rawRT)
		if _, err := i.Tokens.CreateRefreshToken(ctx, sub, clientID, hash, now.Add(i.RefreshTTL), nil); err != nil {
			return nil, err
		}
		out.RefreshToken = rawRT
	}

	return out, nil
}

// Keyfunc valida tokens emitidos por este issuer (userinfo).
func (i *Issuer) Keyfunc() jwtv5.Keyfunc {
	return func(t *jwtv5.Token) (any, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodEd25519); !ok {
			return nil, errors.New("unexpected signing method")
		}
		if kid, _ := t.Header["kid"].(string); kid != "" && kid != i.Keys.KID {
			return nil, errors.New("unknown kid")
		}
		return ed25519.PublicKey(i.Keys.Pub), nil
	}
}

// JWKSJSON expone el JWKS actual.
func (i *Issuer) JWKSJSON() []byte {
	return i.Keys.JWKSJSON()
}
