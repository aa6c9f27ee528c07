package oauth

import (
	"github.com/dropDatabas3/littlejohn/internal/validation"
)

// Scopes bien conocidos.
const (
	ScopeRoles         = "roles"
	ScopeOfflineAccess = "offline_access"
	ScopeEmail         = "email"
	ScopeProfile       = "profile"
)

// DefaultScopeRequest es el pedido de scopes cuando el request no trae
// `scope`: el set que todo password sign-in solicita.
func DefaultScopeRequest() []string {
	return []string{ScopeRoles, ScopeOfflineAccess, ScopeEmail, ScopeProfile}
}

// ScopeNegotiator calcula los scopes otorgados para un sign-in.
// La allow-list es por client (sus scopes registrados), no global: un scope
// que el client no registró jamás se otorga, pase lo que pase en el request.
type ScopeNegotiator struct{}

// Grant devuelve la intersección requested ∩ allowed, preservando el orden
// del request, sin duplicados y filtrando nombres de scope inválidos.
func (ScopeNegotiator) Grant(requested, allowed []string) []string {
	allow := make(map[string]struct{}, len(allowed))
	for _, s := range allowed {
		allow[s] = struct{}{}
	}

	granted := make([]string, 0, len(requested))
	seen := make(map[string]struct{}, len(requested))
	for _, s := range requested {
		if !validation.ValidScopeName(s) {
			continue
		}
		if _, ok := allow[s]; !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		granted = append(granted, s)
	}
	return granted
}

// HasScope reporta si un scope está en el set otorgado.
func HasScope(scopes []string, want string) bool {
	for _, s := range scopes {
		if s == want {
			return true
		}
	}
	return false
}
