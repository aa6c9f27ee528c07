package oauth

import (
	"errors"
	"fmt"
)

// Taxonomía de errores del core. El transporte los mapea al vocabulario
// OAuth2 (invalid_grant, unsupported_grant_type, server_error).
var (
	// ErrInvalidCredentials cubre tanto "usuario inexistente" como "password
	// incorrecto": en el wire son indistinguibles para no permitir enumeración
	// de usernames.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnsupportedGrantType: el dispatcher rechazó el grant_type.
	ErrUnsupportedGrantType = errors.New("unsupported grant type")

	// ErrInvalidArgument: llamada interna malformada (bug del caller, no
	// alcanzable desde el wire).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUpstream: el store o el issuer no están disponibles. Se propaga como
	// 5xx, nunca se confunde con errores de credenciales.
	ErrUpstream = errors.New("upstream failure")
)

func upstream(err error) error {
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
