package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config configures the HTTP server.
type Config struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: ":8080".
	Address string

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// HTTP timeouts. Defaults: 5s, 10s, 10s and 60s.
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// MetricsPath is where Prometheus metrics are served. Empty disables the
	// endpoint.
	// Default: "/metrics".
	MetricsPath string

	// ServeFiles serves the output directory under /{distBaseName}/ so that
	// resolved paths can be fetched from this server.
	ServeFiles bool

	// Gatherer supplies the metrics served at MetricsPath.
	// Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MetricsPath:       "/metrics",
		Gatherer:          prometheus.DefaultGatherer,
	}
}

// withDefaults fills unset fields from DefaultConfig. MetricsPath is left
// alone so that callers can disable the endpoint.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}

	cfg := *c
	if cfg.Address == "" {
		cfg.Address = defaults.Address
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if cfg.ReadHeaderTimeout == 0 {
		cfg.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = defaults.ReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = defaults.IdleTimeout
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = defaults.Gatherer
	}
	return &cfg
}
