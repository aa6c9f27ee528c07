package handlers

import (
	"net/http"

	"github.com/dropDatabas3/littlejohn/internal/jwt"
)

// JWKS publica la clave pública de firma en /.well-known/jwks.json.
func JWKS(issuer *jwt.Issuer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=300")
		_, _ = w.Write(issuer.JWKSJSON())
	})
}
