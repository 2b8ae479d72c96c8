package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP holds request-level Prometheus metrics for the API.
type HTTP struct {
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
}

// New registers the HTTP metrics with reg.
func New(reg prometheus.Registerer) *HTTP {
	f := promauto.With(reg)
	return &HTTP{
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clockgeo_http_request_duration_seconds",
			Help:    "HTTP request latency by route, method and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "clockgeo_http_requests_in_flight",
			Help: "Requests currently being served",
		}),
	}
}

// Middleware records latency labelled by the chi route pattern so ids in
// paths do not explode label cardinality.
func (m *HTTP) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestDuration.WithLabelValues(route, r.Method, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
