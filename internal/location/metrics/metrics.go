package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for location verification.
// All methods are nil-safe so components can run without metrics.
type Metrics struct {
	// Verdicts by derived status and policy mode
	ValidationOutcome *prometheus.CounterVec

	// Geofence validation latency including site lookup
	ValidateLatency prometheus.Histogram

	// Capture attempts by direction and result (captured, rejected, conflict, error)
	CaptureOutcome *prometheus.CounterVec

	// Site lookup cache results: hit, miss, error
	CacheLookups *prometheus.CounterVec

	// Rows removed by retention cleanup, by table kind
	CleanupDeleted *prometheus.CounterVec

	// External facility lookups by result: ok, not_found, error, open_circuit
	FacilityLookups *prometheus.CounterVec
}

// New registers the metrics with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ValidationOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clockgeo_geofence_verdicts_total",
			Help: "Geofence verdicts by derived status and policy mode",
		}, []string{"status", "policy_mode"}),

		ValidateLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "clockgeo_geofence_validate_duration_seconds",
			Help:    "Duration of geofence validation including site lookup",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		CaptureOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clockgeo_capture_attempts_total",
			Help: "Clock location capture attempts by direction and result",
		}, []string{"direction", "result"}),

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clockgeo_site_cache_lookups_total",
			Help: "Site location cache lookups by result",
		}, []string{"result"}),

		CleanupDeleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clockgeo_retention_deleted_total",
			Help: "Rows deleted by retention cleanup by kind",
		}, []string{"kind"}),

		FacilityLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clockgeo_facility_lookups_total",
			Help: "External facility lookups by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncrementVerdict(status, policyMode string) {
	if m != nil {
		m.ValidationOutcome.WithLabelValues(status, policyMode).Inc()
	}
}

func (m *Metrics) ObserveValidateLatency(d time.Duration) {
	if m != nil {
		m.ValidateLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementCapture(direction, result string) {
	if m != nil {
		m.CaptureOutcome.WithLabelValues(direction, result).Inc()
	}
}

func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) AddCleanupDeleted(kind string, n int64) {
	if m != nil && n > 0 {
		m.CleanupDeleted.WithLabelValues(kind).Add(float64(n))
	}
}

func (m *Metrics) IncrementFacilityLookup(result string) {
	if m != nil {
		m.FacilityLookups.WithLabelValues(result).Inc()
	}
}
