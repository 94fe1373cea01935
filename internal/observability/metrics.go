package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// refresh pipeline and the upstream client.
type Metrics struct {
	RefreshesTotal   prometheus.Counter
	RefreshErrors    prometheus.Counter
	RefresherRunning prometheus.Gauge

	// Normalization metrics.
	RecordsFetched  prometheus.Counter
	RecordsDropped  prometheus.Counter
	WindowSize      prometheus.Histogram
	RefreshDuration prometheus.Histogram

	// Upstream API metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint={current,forecast}, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint={current,forecast}

	// Snapshot publishing metrics.
	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RefreshesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uv_forecast",
			Name:      "refreshes_total",
			Help:      "Total successful per-location refresh cycles.",
		}),
		RefreshErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uv_forecast",
			Name:      "refresh_errors_total",
			Help:      "Total failed per-location refresh cycles.",
		}),
		RefresherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "uv_forecast",
			Name:      "refresher_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		RecordsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uv_forecast",
			Name:      "forecast_records_fetched_total",
			Help:      "Total raw forecast records received from the upstream API.",
		}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uv_forecast",
			Name:      "forecast_records_dropped_total",
			Help:      "Total raw forecast records discarded by normalization.",
		}),
		WindowSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "uv_forecast",
			Name:      "window_size",
			Help:      "Number of points in the forecast window after normalization.",
			Buckets:   []float64{0, 1, 4, 8, 12, 16, 20, 24},
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "uv_forecast",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-store cycle for one location.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uv_forecast",
			Name:      "upstream_requests_total",
			Help:      "Upstream API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "uv_forecast",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uv_forecast",
			Name:      "snapshots_published_total",
			Help:      "Total snapshots published to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uv_forecast",
			Name:      "publish_errors_total",
			Help:      "Total snapshot publish failures.",
		}),
	}

	prometheus.MustRegister(
		m.RefreshesTotal,
		m.RefreshErrors,
		m.RefresherRunning,
		m.RecordsFetched,
		m.RecordsDropped,
		m.WindowSize,
		m.RefreshDuration,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.SnapshotsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RefreshesTotal:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "uv_forecast", Name: "refreshes_total"}),
		RefreshErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "uv_forecast", Name: "refresh_errors_total"}),
		RefresherRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "uv_forecast", Name: "refresher_running"}),
		RecordsFetched:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "uv_forecast", Name: "forecast_records_fetched_total"}),
		RecordsDropped:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "uv_forecast", Name: "forecast_records_dropped_total"}),
		WindowSize:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "uv_forecast", Name: "window_size"}),
		RefreshDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "uv_forecast", Name: "refresh_duration_seconds"}),
		UpstreamRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "uv_forecast", Name: "upstream_requests_total"}, []string{"endpoint", "outcome"}),
		UpstreamDuration:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "uv_forecast", Name: "upstream_request_duration_seconds"}, []string{"endpoint"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "uv_forecast", Name: "snapshots_published_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "uv_forecast", Name: "publish_errors_total"}),
	}
}
