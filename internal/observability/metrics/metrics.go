// Package metrics exposes Prometheus instrumentation for the lead service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Row outcomes reported per processed import row.
const (
	RowImported = "imported"
	RowInvalid  = "invalid"
	RowDBError  = "db_error"
)

// ImportMetrics exposes counters/histograms for CSV import batches.
type ImportMetrics struct {
	rowsTotal     *prometheus.CounterVec
	batchesTotal  *prometheus.CounterVec
	batchDuration prometheus.Histogram
}

func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	m := &ImportMetrics{
		rowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadhub",
			Subsystem: "import",
			Name:      "rows_total",
			Help:      "Total import rows processed, by outcome",
		}, []string{"outcome"}),
		batchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadhub",
			Subsystem: "import",
			Name:      "batches_total",
			Help:      "Total import batches, by result",
		}, []string{"result"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leadhub",
			Subsystem: "import",
			Name:      "batch_duration_seconds",
			Help:      "Wall time spent processing one import batch",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.rowsTotal, m.batchesTotal, m.batchDuration)
	return m
}

func (m *ImportMetrics) ObserveRow(outcome string) {
	if m == nil {
		return
	}
	m.rowsTotal.WithLabelValues(outcome).Inc()
}

func (m *ImportMetrics) ObserveBatch(result string, seconds float64) {
	if m == nil {
		return
	}
	m.batchesTotal.WithLabelValues(result).Inc()
	m.batchDuration.Observe(seconds)
}
