package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/reactor/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "reactor.json"

	// DefaultAddr is the default listen address of `reactor serve`.
	DefaultAddr = ":9464"

	// DefaultMetricsPath is the default path of the Prometheus endpoint.
	DefaultMetricsPath = "/metrics"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "reactor"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultShutdownTimeout is how long serve waits for in-flight requests.
	DefaultShutdownTimeout = "10s"
)

// candidates are the file names Find looks for, in order.
var candidates = []string{ConfigFileName, "reactor.yaml", "reactor.yml"}

// Config represents a reactor.json or reactor.yaml file.
type Config struct {
	// Server configures `reactor serve`.
	Server ServerConfig `json:"server" yaml:"server"`

	// Metrics configures the Prometheus observer and endpoint.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Tracing configures the OpenTelemetry observer.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// Log configures the slog logger handed to runtimes.
	Log LogConfig `json:"log" yaml:"log"`

	// Debug enables per-event debug logging in runtimes.
	Debug DebugConfig `json:"debug" yaml:"debug"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// ShutdownTimeout is a duration string such as "10s".
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled installs the metrics observer and mounts the endpoint.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the URL path of the endpoint.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled installs the tracing observer. Spans are written to stderr.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// TrackEvents adds a span event for every subscription.
	TrackEvents bool `json:"trackEvents,omitempty" yaml:"trackEvents,omitempty"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// DebugConfig mirrors reactive.DebugConfig.
type DebugConfig struct {
	LogTrack      bool `json:"logTrack,omitempty" yaml:"logTrack,omitempty"`
	LogTrigger    bool `json:"logTrigger,omitempty" yaml:"logTrigger,omitempty"`
	LogEffectRuns bool `json:"logEffectRuns,omitempty" yaml:"logEffectRuns,omitempty"`
}

// Any reports whether any debug logging is enabled.
func (d DebugConfig) Any() bool {
	return d.LogTrack || d.LogTrigger || d.LogEffectRuns
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      DefaultMetricsPath,
			Namespace: DefaultNamespace,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: "text",
		},
	}
}

// Find returns the first configuration file present in dir.
func Find(dir string) (string, bool) {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Load reads the configuration file in dir. A directory without one
// yields the defaults.
func Load(dir string) (*Config, error) {
	path, ok := Find(dir)
	if !ok {
		return New(), nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from path. The format follows the file
// extension: .json, .yaml or .yml.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FromError(err, "C001").WithDetail(path)
	}

	cfg := New()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, errors.New("C002").
			WithDetailf("unsupported extension %q", ext).
			WithSuggestion("Use reactor.json or reactor.yaml")
	}
	if err != nil {
		return nil, errors.New("C002").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid " + strings.TrimPrefix(filepath.Ext(path), "."))
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to path, as YAML or JSON depending on
// the extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("C002").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.FromError(err, "C001").WithDetail(path)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path must start with /, got %q", c.Metrics.Path)
	}
	if d, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil || d <= 0 {
		return invalid("server.shutdownTimeout must be a positive duration, got %q", c.Server.ShutdownTimeout)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return invalid("%v", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New("C003").WithDetailf(format, args...)
}

// ShutdownTimeout returns the parsed shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultShutdownTimeout)
	}
	return d
}

// Level returns the configured slog level. Debug logging forces
// slog.LevelDebug so the runtime's debug records are not filtered.
func (c *Config) Level() slog.Level {
	if c.Debug.Any() {
		return slog.LevelDebug
	}
	l, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// Logger builds the configured logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level must be debug, info, warn or error, got %q", s)
}
