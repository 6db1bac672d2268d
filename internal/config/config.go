package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/vango-dev/vitelink/internal/errors"
)

const (
	// ConfigFileName is the name of the default configuration file.
	ConfigFileName = "vitelink.json"

	// DefaultDist is the default Vite build output directory.
	DefaultDist = "dist"

	// DefaultDevHost is the default Vite dev server host.
	DefaultDevHost = "localhost"

	// DefaultDevPort is the default Vite dev server port.
	DefaultDevPort = 5173

	// DefaultProbeTimeout bounds the dev server probe.
	DefaultProbeTimeout = "5s"

	// DefaultServeAddr is the default listen address of `vitelink serve`.
	DefaultServeAddr = ":8080"

	// DefaultShutdownTimeout bounds graceful shutdown of `vitelink serve`.
	DefaultShutdownTimeout = "10s"

	// DefaultMetricsNamespace is the Prometheus namespace.
	DefaultMetricsNamespace = "vitelink"

	// DefaultMetricsPath is where `vitelink serve` exposes metrics.
	DefaultMetricsPath = "/metrics"
)

// Dev server modes.
const (
	DevModeAuto = "auto"
	DevModeOn   = "on"
	DevModeOff  = "off"
)

// ConfigFileNames lists the accepted configuration files in lookup order.
var ConfigFileNames = []string{ConfigFileName, "vitelink.toml", "vitelink.yaml", "vitelink.yml"}

// Config represents the complete vitelink configuration.
type Config struct {
	// Dist is the Vite output directory (build.outDir).
	Dist string `json:"dist,omitempty" toml:"dist,omitempty" yaml:"dist,omitempty"`

	// Manifest is an explicit manifest file or directory. Empty means Dist.
	Manifest string `json:"manifest,omitempty" toml:"manifest,omitempty" yaml:"manifest,omitempty"`

	// Snippet is a file replacing the built-in dev injection snippet.
	Snippet string `json:"snippet,omitempty" toml:"snippet,omitempty" yaml:"snippet,omitempty"`

	// Dev contains Vite dev server settings.
	Dev DevConfig `json:"dev,omitempty" toml:"dev,omitempty" yaml:"dev,omitempty"`

	// Serve contains settings of the HTTP API.
	Serve ServeConfig `json:"serve,omitempty" toml:"serve,omitempty" yaml:"serve,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty" toml:"metrics,omitempty" yaml:"metrics,omitempty"`

	// S3 reads the manifest from a bucket instead of the local disk.
	S3 S3Config `json:"s3,omitempty" toml:"s3,omitempty" yaml:"s3,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevConfig contains Vite dev server settings.
type DevConfig struct {
	// Host is the dev server host.
	Host string `json:"host,omitempty" toml:"host,omitempty" yaml:"host,omitempty"`

	// Port is the dev server port.
	Port int `json:"port,omitempty" toml:"port,omitempty" yaml:"port,omitempty"`

	// Mode is "auto" (probe the server), "on" or "off".
	Mode string `json:"mode,omitempty" toml:"mode,omitempty" yaml:"mode,omitempty"`

	// ProbeTimeout bounds the reachability probe (e.g., "5s").
	ProbeTimeout string `json:"probeTimeout,omitempty" toml:"probeTimeout,omitempty" yaml:"probeTimeout,omitempty"`
}

// ServeConfig contains settings of the HTTP API.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty" toml:"addr,omitempty" yaml:"addr,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" toml:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`

	// Files also serves the output directory under /{dist base name}/.
	Files bool `json:"files,omitempty" toml:"files,omitempty" yaml:"files,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes metrics from `vitelink serve`.
	Enabled bool `json:"enabled" toml:"enabled" yaml:"enabled"`

	// Namespace prefixes all metric names.
	Namespace string `json:"namespace,omitempty" toml:"namespace,omitempty" yaml:"namespace,omitempty"`

	// Path is the metrics endpoint.
	Path string `json:"path,omitempty" toml:"path,omitempty" yaml:"path,omitempty"`
}

// S3Config locates the build output in an S3 bucket.
type S3Config struct {
	Bucket    string `json:"bucket,omitempty" toml:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix    string `json:"prefix,omitempty" toml:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region    string `json:"region,omitempty" toml:"region,omitempty" yaml:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty" toml:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	PathStyle bool   `json:"pathStyle,omitempty" toml:"pathStyle,omitempty" yaml:"pathStyle,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Dist: DefaultDist,
		Dev: DevConfig{
			Host:         DefaultDevHost,
			Port:         DefaultDevPort,
			Mode:         DevModeAuto,
			ProbeTimeout: DefaultProbeTimeout,
		},
		Serve: ServeConfig{
			Addr:            DefaultServeAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultMetricsNamespace,
			Path:      DefaultMetricsPath,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for the first of ConfigFileNames in the directory.
func Load(dir string) (*Config, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
// The format follows the extension: .json, .toml, .yaml or .yml.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E260").
				WithDetail("No vitelink configuration found in " + filepath.Dir(path)).
				WithSuggestion("Run 'vitelink init' to create " + ConfigFileName)
		}
		return nil, errors.New("E240").Wrap(err)
	}

	// Fields the file leaves out keep their New() values.
	cfg := New()
	if err := decode(path, data, cfg); err != nil {
		d := errors.New("E240").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check the syntax of " + filepath.Base(path)).
			Wrap(err)
		var syntaxErr *json.SyntaxError
		if stderrors.As(err, &syntaxErr) {
			d.WithOffset(path, syntaxErr.Offset)
		} else {
			d.WithLocation(path, 0, 0)
		}
		return nil, d
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

func encode(path string, cfg *Config) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case ".yaml", ".yml":
		return yaml.Marshal(cfg)
	default:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, in the format
// given by its extension.
func (c *Config) SaveTo(path string) error {
	data, err := encode(path, c)
	if err != nil {
		return errors.New("E240").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E240").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Dist == "" {
		c.Dist = DefaultDist
	}

	// Dev
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultDevHost
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultDevPort
	}
	if c.Dev.Mode == "" {
		c.Dev.Mode = DevModeAuto
	}
	if c.Dev.ProbeTimeout == "" {
		c.Dev.ProbeTimeout = DefaultProbeTimeout
	}

	// Serve
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultServeAddr
	}
	if c.Serve.ShutdownTimeout == "" {
		c.Serve.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Metrics
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dist == "" {
		return errors.New("E241").
			WithDetail("dist must name the Vite output directory")
	}
	if c.Dev.Port < 1 || c.Dev.Port > 65535 {
		return errors.New("E242").
			WithDetail("dev.port must be between 1 and 65535, got " + strconv.Itoa(c.Dev.Port))
	}
	switch c.Dev.Mode {
	case DevModeAuto, DevModeOn, DevModeOff:
	default:
		return errors.New("E243").
			WithDetail(`dev.mode must be "auto", "on" or "off", got "` + c.Dev.Mode + `"`)
	}
	if _, err := parseDuration("dev.probeTimeout", c.Dev.ProbeTimeout); err != nil {
		return err
	}
	if _, err := parseDuration("serve.shutdownTimeout", c.Serve.ShutdownTimeout); err != nil {
		return err
	}
	return nil
}

func parseDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, errors.New("E244").
			WithDetail(field + ` must be a positive duration such as "5s", got "` + value + `"`)
	}
	return d, nil
}

// ProbeTimeout returns dev.probeTimeout as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	d, err := parseDuration("dev.probeTimeout", c.Dev.ProbeTimeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultProbeTimeout)
	}
	return d
}

// ShutdownTimeout returns serve.shutdownTimeout as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := parseDuration("serve.shutdownTimeout", c.Serve.ShutdownTimeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultShutdownTimeout)
	}
	return d
}

// DevForced reports whether dev.mode fixes the dev server state, and which.
func (c *Config) DevForced() (active, forced bool) {
	switch c.Dev.Mode {
	case DevModeOn:
		return true, true
	case DevModeOff:
		return false, true
	}
	return false, false
}

// DevAddress returns the host:port of the Vite dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// DevURL returns the Vite dev server origin.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// UsesS3 reports whether the manifest is read from a bucket.
func (c *Config) UsesS3() bool {
	return c.S3.Bucket != ""
}

// DistPath returns the output directory, resolved against the config
// directory unless it is absolute or an S3 key.
func (c *Config) DistPath() string {
	return c.resolve(c.Dist)
}

// ManifestPath returns the explicit manifest path, or "" when unset.
func (c *Config) ManifestPath() string {
	if c.Manifest == "" {
		return ""
	}
	return c.resolve(c.Manifest)
}

// SnippetPath returns the custom snippet template path, or "" when unset.
func (c *Config) SnippetPath() string {
	if c.Snippet == "" {
		return ""
	}
	if filepath.IsAbs(c.Snippet) {
		return c.Snippet
	}
	return filepath.Join(c.Dir(), c.Snippet)
}

func (c *Config) resolve(path string) string {
	if c.UsesS3() || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range ConfigFileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E260").
				WithDetail("No vitelink configuration found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'vitelink init' to create " + ConfigFileName)
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
