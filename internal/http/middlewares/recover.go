package middlewares

import (
	"fmt"
	"net/http"

	httpx "github.com/dropDatabas3/littlejohn/internal/http"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
)

// WithRecover captura panics y devuelve un server_error en lugar de crashear.
// El detalle del panic va al log, nunca al wire.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("panic recovered",
						logger.Op("recover"),
						logger.Err(fmt.Errorf("%v", rec)),
					)
					httpx.WriteError(w, http.StatusInternalServerError, "server_error", "error interno", 1001)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
