package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vitelink/pkg/server"
)

func serveCmd(a *app) *cobra.Command {
	var (
		addr  string
		files bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolver over HTTP",
		Long: `Start an HTTP API so that non-Go layers can resolve assets.

Routes:
  GET  /healthz
  GET  /assets/resolve?file=main.js
  GET  /assets/styles?file=main.js
  GET  /assets/snippet
  GET  /assets/status
  POST /assets/reload
  GET  /metrics (when metrics are enabled)
  GET  /<dist>/... (with --files)

Examples:
  vitelink serve
  vitelink serve --addr=127.0.0.1:9000
  vitelink serve --files`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}
			if files {
				cfg.Serve.Files = true
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			resolver, err := a.newResolver(cmd.Context(), cfg, registry)
			if err != nil {
				return err
			}

			srvConfig := &server.Config{
				Address:         cfg.Serve.Addr,
				ShutdownTimeout: cfg.ShutdownTimeout(),
				ServeFiles:      cfg.Serve.Files,
				Gatherer:        registry,
			}
			if cfg.Metrics.Enabled {
				srvConfig.MetricsPath = cfg.Metrics.Path
			}
			srv := server.New(resolver, srvConfig, server.WithLogger(a.logger.With("component", "server")))

			// Handle signals
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.printBanner()
			a.success("Listening on %s", cfg.Serve.Addr)
			if _, forced := cfg.DevForced(); !forced {
				a.info("Dev server: %s (probed on first request)", resolver.DevServerURL())
			}

			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&files, "files", false, "Also serve the build output directory")

	return cmd
}
