package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadClaims = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_claims_total",
			Help: "Total number of lead claim attempts",
		},
		[]string{"result"},
	)

	saleDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sale_decisions_total",
			Help: "Total number of sale approval decisions",
		},
		[]string{"action"},
	)

	commissionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "commissions_created_total",
			Help: "Total number of commission records created",
		},
	)

	stalePendingSales = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sales_pending_stale",
			Help: "Sales waiting for an admin decision past the reminder window",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordClaim(result string) {
	leadClaims.WithLabelValues(result).Inc()
}

func RecordDecision(action string) {
	saleDecisions.WithLabelValues(action).Inc()
}

func RecordCommissions(n int) {
	commissionsCreated.Add(float64(n))
}

func SetStalePendingSales(n int) {
	stalePendingSales.Set(float64(n))
}
