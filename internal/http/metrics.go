package http

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricsOnce sync.Once

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	tokenRequestsTotal *prometheus.CounterVec
)

// RegisterMetrics inicializa las métricas y devuelve el handler de /metrics.
func RegisterMetrics(reg prometheus.Registerer) http.Handler {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	metricsOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		tokenRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "token_requests_total",
			Help: "Requests al token endpoint por grant_type y resultado",
		}, []string{"grant_type", "result"})

		reg.MustRegister(httpRequestsTotal, httpRequestDuration, tokenRequestsTotal)
	})
	return promhttp.Handler()
}

// ObserveRequest registra una request HTTP terminada.
func ObserveRequest(method, path string, status int, dur time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(dur.Seconds())
}

// CountTokenRequest registra el resultado de un exchange en el token endpoint.
// result: "ok" | "invalid_grant" | "unsupported_grant_type" | "server_error" | ...
func CountTokenRequest(grantType, result string) {
	if tokenRequestsTotal == nil {
		return
	}
	if grantType == "" {
		grantType = "unknown"
	}
	tokenRequestsTotal.WithLabelValues(grantType, result).Inc()
}
