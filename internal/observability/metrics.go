package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// conversion pipeline.
type Metrics struct {
	RecordsClassified *prometheus.CounterVec // label: layout={plain,series-y,profile-plus}
	VariablesBuilt    prometheus.Counter
	VariablesWritten  prometheus.Counter
	ConversionRunning prometheus.Gauge

	// Degraded-output metrics: every warn-and-degrade path in the
	// timeseries stages increments one of these.
	AxisFallbacks     *prometheus.CounterVec // label: reason={momentum_mismatch,thermo_mismatch,unknown_vertical,multi_origin,station_subset_oob}
	ForecastsSquashed prometheus.Counter

	ConversionDuration prometheus.Histogram
}

// NewMetrics creates and registers all conversion metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seriesnc",
			Name:      "records_classified_total",
			Help:      "Records tagged during classification, by layout convention.",
		}, []string{"layout"}),
		VariablesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seriesnc",
			Name:      "variables_built_total",
			Help:      "Variables produced by materialization.",
		}),
		VariablesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seriesnc",
			Name:      "variables_written_total",
			Help:      "Variables written to the output file.",
		}),
		ConversionRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seriesnc",
			Name:      "conversion_running",
			Help:      "1 while a conversion is active, 0 otherwise.",
		}),
		AxisFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seriesnc",
			Name:      "axis_fallbacks_total",
			Help:      "Axis reinterpretations that degraded to a generic axis, by reason.",
		}, []string{"reason"}),
		ForecastsSquashed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seriesnc",
			Name:      "forecasts_squashed_total",
			Help:      "Variables whose forecast axis was merged into an absolute time axis.",
		}),
		ConversionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "seriesnc",
			Name:      "conversion_duration_seconds",
			Help:      "Duration of a complete load-transform-write conversion.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}

	prometheus.MustRegister(
		m.RecordsClassified,
		m.VariablesBuilt,
		m.VariablesWritten,
		m.ConversionRunning,
		m.AxisFallbacks,
		m.ForecastsSquashed,
		m.ConversionDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsClassified:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "seriesnc", Name: "records_classified_total"}, []string{"layout"}),
		VariablesBuilt:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "seriesnc", Name: "variables_built_total"}),
		VariablesWritten:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "seriesnc", Name: "variables_written_total"}),
		ConversionRunning:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "seriesnc", Name: "conversion_running"}),
		AxisFallbacks:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "seriesnc", Name: "axis_fallbacks_total"}, []string{"reason"}),
		ForecastsSquashed:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "seriesnc", Name: "forecasts_squashed_total"}),
		ConversionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "seriesnc", Name: "conversion_duration_seconds"}),
	}
}
