// Package router arma el mux y el middleware chain del servidor.
package router

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/littlejohn/internal/config"
	httpx "github.com/dropDatabas3/littlejohn/internal/http"
	"github.com/dropDatabas3/littlejohn/internal/http/handlers"
	mw "github.com/dropDatabas3/littlejohn/internal/http/middlewares"
	"github.com/dropDatabas3/littlejohn/internal/jwt"
	"github.com/dropDatabas3/littlejohn/internal/oauth"
	"github.com/dropDatabas3/littlejohn/internal/rate"
	"github.com/dropDatabas3/littlejohn/internal/store/core"
)

// Deps contiene las dependencias ya construidas del servidor.
type Deps struct {
	Store   core.Store
	Grants  *oauth.Dispatcher
	Issuer  *jwt.Issuer
	Limiter rate.Limiter      // nil = sin rate limit
	Ready   handlers.Pinger   // nil = driver memory, siempre ready
}

// New arma el handler raíz: rutas + middlewares en el orden
// recover -> request id -> logging -> métricas -> handler.
func New(cfg *config.Config, d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.Handle(cfg.Endpoints.Token, &handlers.TokenHandler{
		Clients:         d.Store,
		Grants:          d.Grants,
		Issuer:          d.Issuer,
		Limiter:         d.Limiter,
		DefaultClientID: cfg.DefaultClient.ClientID,
	})
	mux.Handle(cfg.Endpoints.UserInfo, &handlers.UserInfoHandler{
		Issuer: d.Issuer,
		Users:  d.Store,
	})
	mux.Handle("/.well-known/jwks.json", handlers.JWKS(d.Issuer))
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", handlers.Readyz(d.Ready))
	mux.Handle("/metrics", httpx.RegisterMetrics(nil))

	return mw.Chain(mux,
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithLogging(),
		withMetrics(),
	)
}

// withMetrics observa método/path/status/latencia de cada request.
func withMetrics() mw.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)
			httpx.ObserveRequest(r.Method, r.URL.Path, rec.status, time.Since(start))
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
