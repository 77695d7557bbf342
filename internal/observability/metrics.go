package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Cycle outcomes.
const (
	OutcomeRendered    = "rendered"
	OutcomeFetchFailed = "fetch_failed"
)

// Metrics holds the Prometheus collectors for the update cycle.
type Metrics struct {
	Cycles          *prometheus.CounterVec // labels: outcome={rendered,fetch_failed}
	FetchDuration   prometheus.Histogram
	ArchiveErrors   prometheus.Counter
	WindowNotFound  prometheus.Counter
	ForecastDays    prometheus.Gauge
	LastSuccessUnix prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nmc_weather",
			Name:      "cycles_total",
			Help:      "Update cycles by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nmc_weather",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of the weather payload request.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ArchiveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nmc_weather",
			Name:      "archive_errors_total",
			Help:      "Raw payloads that could not be written to the archive.",
		}),
		WindowNotFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nmc_weather",
			Name:      "window_not_found_total",
			Help:      "Cycles whose forecast series did not contain today.",
		}),
		ForecastDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nmc_weather",
			Name:      "forecast_days",
			Help:      "Forecast days rendered by the last successful cycle.",
		}),
		LastSuccessUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nmc_weather",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last rendered report.",
		}),
	}
}

// NewMetrics creates and registers all cycle metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Cycles,
		m.FetchDuration,
		m.ArchiveErrors,
		m.WindowNotFound,
		m.ForecastDays,
		m.LastSuccessUnix,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
