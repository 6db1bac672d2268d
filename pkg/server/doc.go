// Package server exposes an asset resolver over HTTP.
//
// It lets layers that are not written in Go, such as a template renderer
// running in another process, ask for the same URLs a Go handler would get
// from assets.Resolver.
//
// # Routes
//
//	GET  /healthz                 liveness
//	GET  /assets/resolve?file=F   {"file": F, "url": ..., "dev": bool}
//	GET  /assets/styles?file=F    {"file": F, "styles": [...]}
//	GET  /assets/snippet          dev injection snippet, 204 when inactive
//	GET  /assets/status           dev server and manifest state
//	POST /assets/reload           re-reads the manifest
//	GET  /metrics                 Prometheus metrics (configurable path)
//	GET  /{dist}/*                build outputs, when Config.ServeFiles is set
//
// Unknown assets answer 404. A missing or unreadable manifest answers 503 so
// that load balancers can hold traffic until a build is deployed.
//
// # Usage
//
//	resolver := assets.NewResolver(assets.Config{Dist: "public/build"})
//	srv := server.New(resolver, nil)
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
