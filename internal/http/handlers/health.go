package handlers

import (
	"context"
	"net/http"
	"time"

	httpx "github.com/dropDatabas3/littlejohn/internal/http"
)

// Pinger lo implementa el store postgres; el store memory no necesita probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthz: liveness. Siempre 200 mientras el proceso atienda.
func Healthz() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// Readyz: readiness. Con backend postgres hace ping con timeout corto;
// p en nil (driver memory) reporta ready directo.
func Readyz(p Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"db":     "down",
				})
				return
			}
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
}
