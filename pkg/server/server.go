package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vitelink/pkg/assets"
)

const tracerName = "github.com/vango-dev/vitelink/pkg/server"

// AssetResolver is the part of *assets.Resolver the server needs.
type AssetResolver interface {
	Resolve(ctx context.Context, filePath string) (string, error)
	StyleURLs(ctx context.Context, filePath string) ([]string, error)
	DevInjectionSnippet(ctx context.Context) (string, bool)
	IsDevServerActive(ctx context.Context) bool
	LoadManifest(ctx context.Context, path string) error
	Manifest(ctx context.Context) (*assets.Manifest, error)
	ManifestLoaded() bool
	DevServerURL() string
	DistBaseName() string
	Config() assets.Config
	FileSystem() assets.FileSystem
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Default: slog.Default() with component=server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTracer sets the tracer used for request spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) {
		s.tracer = tracer
	}
}

// Server serves an AssetResolver over HTTP.
type Server struct {
	config   *Config
	resolver AssetResolver
	router   chi.Router

	mu         sync.Mutex
	httpServer *http.Server

	logger *slog.Logger
	tracer trace.Tracer
}

// New creates a Server. A nil config uses DefaultConfig.
func New(resolver AssetResolver, config *Config, opts ...Option) *Server {
	s := &Server{
		config:   config.withDefaults(),
		resolver: resolver,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "server")
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(s.traceRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/assets", func(r chi.Router) {
		r.Get("/resolve", s.handleResolve)
		r.Get("/styles", s.handleStyles)
		r.Get("/snippet", s.handleSnippet)
		r.Get("/status", s.handleStatus)
		r.Post("/reload", s.handleReload)
	})

	if s.config.ServeFiles {
		switch base := s.resolver.DistBaseName(); base {
		case "assets", "healthz", ".", "/":
			s.logger.Warn("not serving build outputs: output directory name clashes with API routes", "dist", base)
		default:
			r.Get("/"+base+"/*", s.handleStatic)
			r.Head("/"+base+"/*", s.handleStatic)
		}
	}

	if s.config.MetricsPath != "" {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the router, for mounting under another mux.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address and serves until ctx is done, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}
	s.mu.Lock()
	s.httpServer = httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	httpServer := s.httpServer
	s.mu.Unlock()

	if httpServer != nil {
		if err := httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Config returns the server configuration with defaults applied.
func (s *Server) Config() *Config {
	return s.config
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}
