// Package metrics exposes Prometheus collectors for leaderboard operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"rankboard/engine"
)

// Metric names as constants for consistency.
const (
	MetricSortsTotal     = "rankboard_sorts_total"
	MetricSortDuration   = "rankboard_sort_duration_seconds"
	MetricUpdatesTotal   = "rankboard_updates_total"
	MetricUpdateDuration = "rankboard_update_duration_seconds"
	MetricBoardSize      = "rankboard_board_records"
)

// Metrics contains Prometheus collectors for sort and update operations.
// All methods are safe for concurrent use.
type Metrics struct {
	sortsTotal     prometheus.Counter
	sortDuration   prometheus.Histogram
	updatesTotal   *prometheus.CounterVec
	updateDuration *prometheus.HistogramVec
	boardSize      prometheus.Gauge
}

// NewMetrics creates the collectors without registering them.
func NewMetrics() *Metrics {
	// Sorts and updates of in-memory boards finish in micro- to milliseconds.
	buckets := prometheus.ExponentialBuckets(1e-6, 4, 10)
	return &Metrics{
		sortsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricSortsTotal,
			Help: "Total number of full board sorts",
		}),
		sortDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricSortDuration,
			Help:    "Histogram of full sort duration in seconds",
			Buckets: buckets,
		}),
		updatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricUpdatesTotal,
			Help: "Total number of incremental score updates by outcome",
		}, []string{"outcome"}),
		updateDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricUpdateDuration,
			Help:    "Histogram of incremental update duration in seconds by outcome",
			Buckets: buckets,
		}, []string{"outcome"}),
		boardSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricBoardSize,
			Help: "Number of records on the board at the last sort",
		}),
	}
}

// Collectors returns every collector, e.g. for custom registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.sortsTotal,
		m.sortDuration,
		m.updatesTotal,
		m.updateDuration,
		m.boardSize,
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveSort(size int, took time.Duration) {
	m.sortsTotal.Inc()
	m.sortDuration.Observe(took.Seconds())
	m.boardSize.Set(float64(size))
}

func (m *Metrics) ObserveUpdate(outcome string, took time.Duration) {
	m.updatesTotal.WithLabelValues(outcome).Inc()
	m.updateDuration.WithLabelValues(outcome).Observe(took.Seconds())
}

var _ engine.Observer = (*Metrics)(nil)
