// Package metrics holds the Prometheus instruments of document issuance.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for issuance and delivery.
type Metrics struct {
	IssuedTotal           *prometheus.CounterVec
	IssueDuration         *prometheus.HistogramVec
	DownloadsTotal        *prometheus.CounterVec
	FailuresTotal         *prometheus.CounterVec
	ActivityFailuresTotal prometheus.Counter
}

// New creates the issuance metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		IssuedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_documents_issued_total",
			Help: "Issue calls by document kind and outcome (created, existing, regenerated)",
		}, []string{"kind", "outcome"}),
		IssueDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dossier_issue_duration_seconds",
			Help:    "Duration of Issue operations including lock waits and rendering",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"kind"}),
		DownloadsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_documents_downloaded_total",
			Help: "Artifacts handed to callers by document kind",
		}, []string{"kind"}),
		FailuresTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_issuance_failures_total",
			Help: "Failed operations by operation and error class",
		}, []string{"operation", "reason"}),
		ActivityFailuresTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "dossier_activity_log_failures_total",
			Help: "Activity events that could not be recorded",
		}),
	}
}

// ObserveIssue records one successful Issue call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveIssue(kind, outcome string, start time.Time) {
	m.IssuedTotal.WithLabelValues(kind, outcome).Inc()
	m.IssueDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// IncDownload records one served artifact.
func (m *Metrics) IncDownload(kind string) {
	m.DownloadsTotal.WithLabelValues(kind).Inc()
}

// IncFailure records a failed operation.
func (m *Metrics) IncFailure(operation, reason string) {
	m.FailuresTotal.WithLabelValues(operation, reason).Inc()
}

// IncActivityFailure records a dropped activity event.
func (m *Metrics) IncActivityFailure() {
	m.ActivityFailuresTotal.Inc()
}
