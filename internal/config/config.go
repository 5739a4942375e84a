// Package config loads the server configuration from an optional YAML file,
// the environment and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/teemow/todoist-mcp/internal/credential"
	"github.com/teemow/todoist-mcp/internal/events"
	"github.com/teemow/todoist-mcp/internal/logging"
	"github.com/teemow/todoist-mcp/internal/todoist"
)

// Transports
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

// EnvPrefix prefixes every environment override, e.g. TODOIST_MCP_SERVER_READ_ONLY.
const EnvPrefix = "TODOIST_MCP"

// TokenEnv is the conventional variable holding the Todoist API token.
const TokenEnv = "TODOIST_API_TOKEN"

// ErrMissingToken is returned when no API token is configured anywhere.
var ErrMissingToken = errors.New(TokenEnv + " environment variable is required")

// TodoistConfig configures the REST client.
type TodoistConfig struct {
	APIToken   string        `mapstructure:"api_token"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// ServerConfig configures the MCP transport.
type ServerConfig struct {
	Transport string `mapstructure:"transport"`
	HTTPAddr  string `mapstructure:"http_addr"`
	ReadOnly  bool   `mapstructure:"read_only"`
}

// BatchConfig bounds batch execution. Zero means unbounded.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// MetricsConfig configures the standalone metrics server.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// EventsConfig configures change-event publication. An empty NATSURL
// disables it.
type EventsConfig struct {
	NATSURL       string `mapstructure:"nats_url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

// LogConfig configures the stderr logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the full server configuration.
type Config struct {
	Todoist TodoistConfig `mapstructure:"todoist"`
	Server  ServerConfig  `mapstructure:"server"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Events  EventsConfig  `mapstructure:"events"`
	Log     LogConfig     `mapstructure:"log"`
}

// flagKeys maps config keys to the serve command's flag names.
var flagKeys = map[string]string{
	"server.transport":  "transport",
	"server.http_addr":  "http-addr",
	"server.read_only":  "read-only",
	"batch.concurrency": "batch-concurrency",
	"metrics.enabled":   "metrics-enabled",
	"metrics.addr":      "metrics-addr",
	"events.nats_url":   "nats-url",
	"log.level":         "log-level",
	"log.format":        "log-format",
}

// DefaultPath returns ~/.config/todoist-mcp/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "todoist-mcp", "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("todoist.base_url", todoist.DefaultBaseURL)
	v.SetDefault("todoist.timeout", todoist.DefaultTimeout)
	v.SetDefault("todoist.max_retries", 0)
	v.SetDefault("server.transport", TransportStdio)
	v.SetDefault("server.http_addr", "127.0.0.1:8080")
	v.SetDefault("server.read_only", false)
	v.SetDefault("batch.concurrency", 0)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", "127.0.0.1:9090")
	v.SetDefault("events.nats_url", "")
	v.SetDefault("events.subject_prefix", events.DefaultSubjectPrefix)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatText)
}

// Load reads the configuration. An empty path means DefaultPath, which may
// be missing. An explicitly named file must exist. Flags that were set on
// the command line override everything else.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("todoist.api_token", EnvPrefix+"_TODOIST_API_TOKEN", TokenEnv); err != nil {
		return nil, fmt.Errorf("binding %s: %w", TokenEnv, err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &pathErr) || errors.As(err, &notFound)
		if !missing || explicit {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport %q, must be one of: %s, %s",
			c.Server.Transport, TransportStdio, TransportStreamableHTTP)
	}
	if c.Batch.Concurrency < 0 {
		return fmt.Errorf("batch concurrency must be >= 0, got %d", c.Batch.Concurrency)
	}
	if c.Todoist.MaxRetries < 0 {
		return fmt.Errorf("max retries must be >= 0, got %d", c.Todoist.MaxRetries)
	}
	if c.Todoist.Timeout < 0 {
		return fmt.Errorf("todoist timeout must be >= 0, got %s", c.Todoist.Timeout)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("invalid log format %q, must be one of: text, json", c.Log.Format)
	}
	return nil
}

// ResolveToken returns the configured API token, falling back to the token
// stored in the keyring. store may be nil.
func ResolveToken(cfg *Config, store credential.Store) (string, error) {
	if token := strings.TrimSpace(cfg.Todoist.APIToken); token != "" {
		return token, nil
	}
	if store == nil {
		return "", ErrMissingToken
	}
	token, err := store.Get(credential.TokenKey)
	if err != nil || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}
