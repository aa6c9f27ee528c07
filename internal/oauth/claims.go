package oauth

import (
	"strings"

	"github.com/dropDatabas3/littlejohn/internal/store/core"
)

// Destination indica en qué artefactos viaja un claim. Un claim sin destino
// es descartado por el issuer.
type Destination uint8

const (
	DestAccessToken Destination = 1 << iota
	DestIdentityToken
)

// Tipos de claim que emite el builder.
const (
	ClaimSubject  = "sub"
	ClaimUsername = "username"
	ClaimName     = "name"
	ClaimRole     = "role"
	ClaimEmail    = "email"
)

type Claim struct {
	Type         string
	Value        string
	Destinations Destination
}

// DestinedFor reporta si el claim viaja en el destino dado.
func (c Claim) DestinedFor(d Destination) bool {
	return c.Destinations&d != 0
}

// Principal es el conjunto ordenado (duplicados tolerados) de claims del
// sujeto autenticado, más el esquema de autenticación.
// Se construye por request y se consume una sola vez en el issuer.
type Principal struct {
	AuthType string
	Claims   []Claim
}

// First devuelve el primer claim del tipo dado.
func (p *Principal) First(typ string) (string, bool) {
	for _, c := range p.Claims {
		if c.Type == typ {
			return c.Value, true
		}
	}
	return "", false
}

// Roles devuelve los valores de todos los claims de rol, en orden de emisión.
func (p *Principal) Roles() []string {
	var out []string
	for _, c := range p.Claims {
		if c.Type == ClaimRole {
			out = append(out, c.Value)
		}
	}
	return out
}

// BuildPrincipal mapea (usuario autenticado, roles) a un Principal.
// Determinístico: mismo input, mismo output, mismo orden.
//
// Emite siempre sub, username y name (una sola vez) con destino access token,
// y un claim de rol por cada membresía respetando el orden de entrada.
// Nunca emite material de password. roles vacío es válido.
func BuildPrincipal(user *core.User, roles []string) (*Principal, error) {
	if user == nil {
		return nil, ErrInvalidArgument
	}

	claims := make([]Claim, 0, 3+len(roles))
	claims = append(claims,
		Claim{Type: ClaimSubject, Value: user.ID, Destinations: DestAccessToken},
		Claim{Type: ClaimUsername, Value: user.Username, Destinations: DestAccessToken},
		Claim{Type: ClaimName, Value: user.FirstName, Destinations: DestAccessToken},
	)
	if email := strings.TrimSpace(user.Email); email != "" {
		claims = append(claims, Claim{Type: ClaimEmail, Value: email, Destinations: DestIdentityToken})
	}
	for _, r := range roles {
		claims = append(claims, Claim{Type: ClaimRole, Value: r, Destinations: DestAccessToken})
	}

	return &Principal{AuthType: "Bearer", Claims: claims}, nil
}
