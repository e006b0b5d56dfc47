package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ImportMetrics tracks bulk upload runs and per-row outcomes.
type ImportMetrics struct {
	duration *prometheus.HistogramVec
	rows     *prometheus.CounterVec
	runs     *prometheus.CounterVec
}

// NewImportMetrics registers the import metrics on the provided registerer.
func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	if reg == nil {
		return &ImportMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "import_duration_seconds",
		Help:    "Duration of bulk import runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"file_type"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_rows_total",
		Help: "Imported rows partitioned by outcome.",
	}, []string{"outcome"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_runs_total",
		Help: "Bulk import runs partitioned by file type.",
	}, []string{"file_type"})
	reg.MustRegister(duration, rows, runs)
	return &ImportMetrics{duration: duration, rows: rows, runs: runs}
}

// ObserveRun records one completed import run.
func (m *ImportMetrics) ObserveRun(fileType string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	label := normalizeLabel(fileType)
	m.duration.WithLabelValues(label).Observe(duration.Seconds())
	m.runs.WithLabelValues(label).Inc()
}

// AddRows adds per-row outcome counts (imported, failed).
func (m *ImportMetrics) AddRows(outcome string, n int) {
	if m == nil || m.rows == nil || n <= 0 {
		return
	}
	m.rows.WithLabelValues(normalizeLabel(outcome)).Add(float64(n))
}
