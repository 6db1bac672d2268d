package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vitelink/internal/config"
	"github.com/vango-dev/vitelink/internal/errors"
	"github.com/vango-dev/vitelink/pkg/assets"
	"github.com/vango-dev/vitelink/pkg/assets/s3source"
)

// globalFlags are shared by every command and override the config file.
type globalFlags struct {
	configPath string
	dist       string
	manifest   string
	host       string
	port       int
	devMode    string
	jsonOutput bool
	verbose    bool
	noColor    bool
}

// app carries the state shared by the commands of one invocation.
type app struct {
	flags  globalFlags
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func (a *app) bindFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&a.flags.configPath, "config", "c", "", "Config file (default: vitelink.json found from the working directory up)")
	f.StringVar(&a.flags.dist, "dist", "", "Vite output directory (default from config)")
	f.StringVar(&a.flags.manifest, "manifest", "", "Manifest file or directory (default: <dist>/.vite/manifest.json)")
	f.StringVar(&a.flags.host, "host", "", "Vite dev server host (default from config)")
	f.IntVar(&a.flags.port, "port", 0, "Vite dev server port (default from config)")
	f.StringVar(&a.flags.devMode, "dev", "", `Dev server mode: "auto", "on" or "off" (default from config)`)
	f.BoolVar(&a.flags.jsonOutput, "json", false, "Print machine-readable JSON")
	f.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Enable debug logging")
	f.BoolVar(&a.flags.noColor, "no-color", false, "Disable colored output")
}

// setup configures logging and colors once flags are parsed.
func (a *app) setup() {
	level := slog.LevelInfo
	if a.flags.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level})).
		With("component", "cli")

	if a.flags.noColor || a.flags.jsonOutput {
		color.NoColor = true
	}
	if color.NoColor {
		errors.DisableColors()
	}
}

// loadConfig reads the project configuration and applies flag overrides.
// Without a config file the defaults are used.
func (a *app) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.flags.configPath != "" {
		cfg, err = config.LoadFile(a.flags.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
		if d, ok := errors.As(err); ok && d.Code == "E260" {
			a.logger.Debug("no config file found, using defaults")
			cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return nil, err
	}

	if err := a.applyOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides copies set flags into cfg. Local paths given on the command
// line are relative to the working directory, not to the config file.
func (a *app) applyOverrides(cfg *config.Config) error {
	if a.flags.dist != "" {
		dist, err := a.localPath(cfg, a.flags.dist)
		if err != nil {
			return err
		}
		cfg.Dist = dist
	}
	if a.flags.manifest != "" {
		manifest, err := a.localPath(cfg, a.flags.manifest)
		if err != nil {
			return err
		}
		cfg.Manifest = manifest
	}
	if a.flags.host != "" {
		cfg.Dev.Host = a.flags.host
	}
	if a.flags.port != 0 {
		cfg.Dev.Port = a.flags.port
	}
	if a.flags.devMode != "" {
		cfg.Dev.Mode = a.flags.devMode
	}
	return nil
}

func (a *app) localPath(cfg *config.Config, p string) (string, error) {
	if cfg.UsesS3() {
		return p, nil
	}
	return filepath.Abs(p)
}

// newResolver builds the resolver described by cfg. Metrics are registered
// with registry when it is non-nil and metrics are enabled.
func (a *app) newResolver(ctx context.Context, cfg *config.Config, registry prometheus.Registerer) (*assets.Resolver, error) {
	opts := []assets.Option{
		assets.WithLogger(a.logger.With("component", "assets")),
	}

	if active, forced := cfg.DevForced(); forced {
		opts = append(opts, assets.WithDevServer(active))
	}

	if cfg.UsesS3() {
		client, err := s3source.NewClient(ctx, s3source.ClientOptions{
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, errors.Newf(errors.CategoryConfig, "cannot configure S3 access for bucket %s", cfg.S3.Bucket).
				WithSuggestion("Set AWS_REGION or \"s3.region\", and provide credentials through the environment, a shared profile or an instance role").
				Wrap(err)
		}
		opts = append(opts, assets.WithFileSystem(s3source.New(client, cfg.S3.Bucket, cfg.S3.Prefix)))
		a.logger.Debug("reading manifest from S3", "bucket", cfg.S3.Bucket, "prefix", cfg.S3.Prefix)
	}

	if path := cfg.SnippetPath(); path != "" {
		tmpl, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Newf(errors.CategoryConfig, "cannot read snippet template %s", path).
				WithSuggestion("Fix the \"snippet\" path in " + config.ConfigFileName + " or remove it").
				Wrap(err)
		}
		opts = append(opts, assets.WithSnippetTemplate(string(tmpl)))
	}

	if registry != nil && cfg.Metrics.Enabled {
		opts = append(opts, assets.WithMetrics(assets.NewMetrics(
			assets.WithNamespace(cfg.Metrics.Namespace),
			assets.WithRegistry(registry),
		)))
	}

	return assets.NewResolver(assets.Config{
		Dist:         cfg.DistPath(),
		Manifest:     cfg.ManifestPath(),
		Host:         cfg.Dev.Host,
		Port:         cfg.Dev.Port,
		ProbeTimeout: cfg.ProbeTimeout(),
	}, opts...), nil
}

// setupResolver loads the config and builds a resolver without metrics.
func (a *app) setupResolver(ctx context.Context) (*config.Config, *assets.Resolver, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	resolver, err := a.newResolver(ctx, cfg, nil)
	if err != nil {
		return nil, nil, err
	}
	return cfg, resolver, nil
}

// printJSON writes v as indented JSON.
func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
