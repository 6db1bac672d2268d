package assets

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"path"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultHost is the default Vite dev server host.
	DefaultHost = "localhost"

	// DefaultPort is the default Vite dev server port.
	DefaultPort = 5173

	// ManifestDir and ManifestName locate the manifest inside an output
	// directory, as written by Vite 5 and later.
	ManifestDir  = ".vite"
	ManifestName = "manifest.json"

	tracerName = "github.com/vango-dev/vitelink/pkg/assets"
)

// Config is the Resolver configuration. It is not modified after NewResolver.
type Config struct {
	// Dist is the build output directory. Its last path segment prefixes every
	// resolved production path.
	Dist string

	// Manifest is an explicit manifest path, file or directory.
	// Empty means Dist.
	Manifest string

	// Host and Port address the Vite dev server (default localhost:5173).
	Host string
	Port int

	// ProbeTimeout bounds the dev server probe (default 5s).
	ProbeTimeout time.Duration
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithMetrics records resolutions, loads and probes into m.
func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithTracer sets the tracer used for manifest loads and probes.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Resolver) {
		r.tracer = tracer
	}
}

// WithProber replaces the HTTP dev server probe.
func WithProber(p Prober) Option {
	return func(r *Resolver) {
		r.prober = p
	}
}

// WithFileSystem sets where manifests are read from (default: local disk).
func WithFileSystem(fsys FileSystem) Option {
	return func(r *Resolver) {
		r.fsys = fsys
	}
}

// WithSnippetTemplate replaces the dev injection snippet template.
// Every "{port}" in tmpl is replaced by the dev server port.
func WithSnippetTemplate(tmpl string) Option {
	return func(r *Resolver) {
		r.snippet = tmpl
	}
}

// WithDevServer fixes the dev server state instead of probing for it.
func WithDevServer(active bool) Option {
	return func(r *Resolver) {
		r.devActive = &active
	}
}

// Resolver maps source paths to production asset paths or dev server URLs.
//
// The manifest is loaded on first use and kept; the dev server is probed on
// first use and the answer kept. A Resolver is safe for concurrent use and
// concurrent first callers share a single load and a single probe.
type Resolver struct {
	config   Config
	distBase string

	fsys    FileSystem
	prober  Prober
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	snippet string

	manifestMu sync.Mutex
	manifest   *Manifest

	devMu     sync.Mutex
	devActive *bool
}

// NewResolver creates a Resolver. Nothing is read or probed until needed.
func NewResolver(cfg Config, opts ...Option) *Resolver {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}

	r := &Resolver{
		config:   cfg,
		distBase: filepath.Base(cfg.Dist),
		fsys:     OSFileSystem{},
		snippet:  DefaultSnippetTemplate,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.prober == nil {
		r.prober = NewHTTPProber(cfg.ProbeTimeout)
	}
	if r.logger == nil {
		r.logger = slog.Default().With("component", "assets")
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(tracerName)
	}
	return r
}

// Config returns the resolver configuration with defaults applied.
func (r *Resolver) Config() Config {
	return r.config
}

// FileSystem returns the storage manifests and build outputs are read from.
func (r *Resolver) FileSystem() FileSystem {
	return r.fsys
}

// DistBaseName returns the prefix of resolved production paths.
func (r *Resolver) DistBaseName() string {
	return r.distBase
}

// DevServerURL returns the dev server origin, e.g. "http://localhost:5173".
func (r *Resolver) DevServerURL() string {
	return "http://" + net.JoinHostPort(r.config.Host, strconv.Itoa(r.config.Port))
}

// LoadManifest reads and parses the manifest and replaces the cached one.
//
// An empty path means the configured manifest path, or Dist when none is set.
// A directory is searched for .vite/manifest.json. The file is read again on
// every call.
func (r *Resolver) LoadManifest(ctx context.Context, path string) error {
	r.manifestMu.Lock()
	defer r.manifestMu.Unlock()

	_, err := r.loadLocked(ctx, path)
	return err
}

// Manifest returns the cached manifest, loading it on first use.
// Failed loads are not cached.
func (r *Resolver) Manifest(ctx context.Context) (*Manifest, error) {
	r.manifestMu.Lock()
	defer r.manifestMu.Unlock()

	if r.manifest != nil {
		return r.manifest, nil
	}
	return r.loadLocked(ctx, "")
}

// ManifestLoaded reports whether a manifest is cached.
func (r *Resolver) ManifestLoaded() bool {
	r.manifestMu.Lock()
	defer r.manifestMu.Unlock()

	return r.manifest != nil
}

func (r *Resolver) loadLocked(ctx context.Context, p string) (*Manifest, error) {
	if p == "" {
		p = r.config.Manifest
	}
	if p == "" {
		p = r.config.Dist
	}

	_, span := r.tracer.Start(ctx, "assets.LoadManifest",
		trace.WithAttributes(attribute.String("manifest.path", p)))
	defer span.End()

	start := time.Now()
	m, err := r.readManifest(p)
	size := 0
	if m != nil {
		size = m.Len()
	}
	r.metrics.observeLoad(err, time.Since(start).Seconds(), size)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Warn("manifest load failed", "path", p, "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("manifest.assets", size))
	r.logger.Debug("manifest loaded", "path", p, "assets", size)
	r.manifest = m
	return m, nil
}

func (r *Resolver) readManifest(p string) (*Manifest, error) {
	info, err := r.fsys.Stat(p)
	if err != nil {
		return nil, manifestNotFound(p, statCause(err))
	}

	if info.IsDir() {
		p = path.Join(filepath.ToSlash(p), ManifestDir, ManifestName)
		info, err = r.fsys.Stat(p)
		if err != nil {
			return nil, manifestNotFound(p, statCause(err))
		}
		if info.IsDir() {
			return nil, manifestNotFound(p, nil)
		}
	}

	data, err := r.fsys.ReadFile(p)
	if err != nil {
		return nil, invalidManifest(p, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, invalidManifest(p, err)
	}
	return m, nil
}

// statCause drops the cause for plain missing files.
func statCause(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// IsDevServerActive reports whether the dev server answers. The first call
// probes it and the answer is kept for the life of the Resolver. Probe
// failures count as an inactive server and are never returned.
func (r *Resolver) IsDevServerActive(ctx context.Context) bool {
	r.devMu.Lock()
	defer r.devMu.Unlock()

	if r.devActive != nil {
		return *r.devActive
	}
	active := r.probe(ctx)
	r.devActive = &active
	return active
}

func (r *Resolver) probe(ctx context.Context) bool {
	// The answer is cached, so a caller giving up must not decide it.
	ctx = context.WithoutCancel(ctx)
	target := r.DevServerURL() + "/"

	ctx, span := r.tracer.Start(ctx, "assets.ProbeDevServer",
		trace.WithAttributes(attribute.String("devserver.url", target)))
	defer span.End()

	ok, err := r.prober.Probe(ctx, target)
	switch {
	case err != nil:
		span.SetAttributes(attribute.String("devserver.result", "unreachable"))
		r.metrics.observeProbe("unreachable")
		r.logger.Debug("dev server unreachable, using manifest", "url", target, "error", err)
		return false
	case !ok:
		span.SetAttributes(attribute.String("devserver.result", "rejected"))
		r.metrics.observeProbe("rejected")
		r.logger.Debug("dev server answered with an error, using manifest", "url", target)
		return false
	}

	span.SetAttributes(attribute.String("devserver.result", "active"))
	r.metrics.observeProbe("active")
	r.logger.Info("dev server detected", "url", r.DevServerURL())
	return true
}

// Resolve returns the URL for a source path.
//
// With the dev server running it returns the dev server URL of the source
// file and never touches the manifest. Otherwise it returns the hashed output
// path prefixed with the output directory name, e.g. "dist/assets/main.12345.js",
// or an AssetNotFound error.
func (r *Resolver) Resolve(ctx context.Context, filePath string) (string, error) {
	if r.IsDevServerActive(ctx) {
		r.metrics.observeResolution(modeDev, outcomeOK)
		return r.DevServerURL() + "/" + filePath, nil
	}

	m, err := r.Manifest(ctx)
	if err != nil {
		r.metrics.observeResolution(modeManifest, errorOutcome(err))
		return "", err
	}

	a, ok := m.Get(filePath)
	if !ok {
		err := assetNotFound(filePath)
		r.metrics.observeResolution(modeManifest, errorOutcome(err))
		return "", err
	}

	r.metrics.observeResolution(modeManifest, outcomeOK)
	return r.distBase + "/" + a.File, nil
}

// StyleURLs returns the stylesheet bundles of a source path, prefixed like
// Resolve results. It reads the manifest whatever the dev server state. A
// missing asset or an asset without stylesheets yields an empty slice.
func (r *Resolver) StyleURLs(ctx context.Context, filePath string) ([]string, error) {
	m, err := r.Manifest(ctx)
	if err != nil {
		return nil, err
	}

	a, ok := m.Get(filePath)
	if !ok || !a.HasCSS() {
		return []string{}, nil
	}
	return lo.Map(a.CSS, func(css string, _ int) string {
		return r.distBase + "/" + css
	}), nil
}

// DevInjectionSnippet returns the HTML to inject into pages while the dev
// server runs. It reports false when the dev server is not active.
func (r *Resolver) DevInjectionSnippet(ctx context.Context) (string, bool) {
	if !r.IsDevServerActive(ctx) {
		return "", false
	}
	return renderSnippet(r.snippet, r.config.Port), true
}
