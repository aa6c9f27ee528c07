// Package oauth implementa el núcleo del token endpoint: clasificación de
// grant types, el password grant, la construcción de claims y la negociación
// de scopes. Todo lo demás (HTTP, firma, persistencia) son colaboradores.
package oauth

import (
	"context"

	"github.com/dropDatabas3/littlejohn/internal/store/core"
)

// GrantType es la variante enumerada del grant_type del protocolo.
// Agregar un grant nuevo = agregar variante + case en el dispatcher;
// el switch exhaustivo hace que el compilador marque los lugares a tocar.
type GrantType uint8

const (
	GrantUnknown GrantType = iota
	GrantPassword
	GrantAuthorizationCode
	GrantClientCredentials
	GrantRefreshToken
	GrantDeviceCode
	GrantImplicit
)

// ParseGrantType clasifica el string del protocolo. Cualquier string no
// reconocido es GrantUnknown.
func ParseGrantType(s string) GrantType {
	switch s {
	case "password":
		return GrantPassword
	case "authorization_code":
		return GrantAuthorizationCode
	case "client_credentials":
		return GrantClientCredentials
	case "refresh_token":
		return GrantRefreshToken
	case "urn:ietf:params:oauth:grant-type:device_code":
		return GrantDeviceCode
	case "implicit":
		return GrantImplicit
	default:
		return GrantUnknown
	}
}

func (g GrantType) String() string {
	switch g {
	case GrantPassword:
		return "password"
	case GrantAuthorizationCode:
		return "authorization_code"
	case GrantClientCredentials:
		return "client_credentials"
	case GrantRefreshToken:
		return "refresh_token"
	case GrantDeviceCode:
		return "device_code"
	case GrantImplicit:
		return "implicit"
	default:
		return "unknown"
	}
}

// TokenRequest es el request entrante ya parseado. El core solo lo lee.
type TokenRequest struct {
	GrantType string
	Username  string
	Password  string
	Scopes    []string
}

// SignInResult es la tupla que consume el issuer: principal + scopes
// otorgados + esquema. Vive dentro de un request, nunca se persiste.
type SignInResult struct {
	Principal *Principal
	Scopes    []string
	Scheme    string
}

// GrantHandler resuelve un grant concreto.
type GrantHandler interface {
	Exchange(ctx context.Context, req TokenRequest, client *core.Client) (*SignInResult, error)
}

// Dispatcher clasifica el grant_type e invoca exactamente un handler.
// No autentica ni toca el store: solo rutea.
type Dispatcher struct {
	password GrantHandler
}

func NewDispatcher(password GrantHandler) *Dispatcher {
	return &Dispatcher{password: password}
}

// Exchange rutea el request al handler del grant. Todo grant distinto de
// password (incluidos refresh_token, client_credentials, authorization_code
// y strings desconocidos) se rechaza con ErrUnsupportedGrantType: este es el
// seam de extensión para grants futuros.
func (d *Dispatcher) Exchange(ctx context.Context, req TokenRequest, client *core.Client) (*SignInResult, error) {
	switch ParseGrantType(req.GrantType) {
	case GrantPassword:
		return d.password.Exchange(ctx, req, client)
	case GrantAuthorizationCode, GrantClientCredentials, GrantRefreshToken,
		GrantDeviceCode, GrantImplicit, GrantUnknown:
		return nil, ErrUnsupportedGrantType
	default:
		return nil, ErrUnsupportedGrantType
	}
}
