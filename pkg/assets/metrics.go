package assets

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the resolver's Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vitelink").
	Namespace string

	// Subsystem is the metrics subsystem (default: "assets").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for manifest load duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the resolver's Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vitelink",
		Subsystem: "assets",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors updated by a Resolver.
// A nil *Metrics records nothing.
type Metrics struct {
	resolutions    *prometheus.CounterVec
	manifestLoads  *prometheus.CounterVec
	loadDuration   prometheus.Histogram
	manifestAssets prometheus.Gauge
	probes         *prometheus.CounterVec
}

// NewMetrics registers the resolver metrics:
//   - vitelink_assets_resolutions_total: resolutions by mode and outcome
//   - vitelink_assets_manifest_loads_total: manifest loads by outcome
//   - vitelink_assets_manifest_load_duration_seconds: manifest read and parse time
//   - vitelink_assets_manifest_assets: assets in the last loaded manifest
//   - vitelink_assets_devserver_probes_total: probes by result
//
// Registering twice on the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolutions_total",
			Help:        "Total number of asset resolutions",
			ConstLabels: config.ConstLabels,
		}, []string{"mode", "outcome"}),

		manifestLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "manifest_loads_total",
			Help:        "Total number of manifest loads",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		loadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "manifest_load_duration_seconds",
			Help:        "Time spent reading and parsing the manifest",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		manifestAssets: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "manifest_assets",
			Help:        "Number of assets in the last loaded manifest",
			ConstLabels: config.ConstLabels,
		}),

		probes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "devserver_probes_total",
			Help:        "Total number of dev server probes by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),
	}
}

// Mode and outcome label values.
const (
	modeDev      = "dev"
	modeManifest = "manifest"

	outcomeOK    = "ok"
	outcomeError = "error"
)

func (m *Metrics) observeResolution(mode, outcome string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) observeLoad(err error, seconds float64, size int) {
	if m == nil {
		return
	}
	m.loadDuration.Observe(seconds)
	if err != nil {
		m.manifestLoads.WithLabelValues(errorOutcome(err)).Inc()
		return
	}
	m.manifestLoads.WithLabelValues(outcomeOK).Inc()
	m.manifestAssets.Set(float64(size))
}

func (m *Metrics) observeProbe(result string) {
	if m == nil {
		return
	}
	m.probes.WithLabelValues(result).Inc()
}

// errorOutcome labels a resolution failure by its kind.
func errorOutcome(err error) string {
	var e *Error
	if errors.As(err, &e) {
		switch e.Kind {
		case KindManifestNotFound:
			return "manifest_not_found"
		case KindInvalidManifest:
			return "invalid_manifest"
		case KindAssetNotFound:
			return "asset_not_found"
		}
	}
	return outcomeError
}
