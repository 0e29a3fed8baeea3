// Package config provides configuration management for the ScholarSync client.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the ScholarSync client.
type Config struct {
	// Backend contains ScholarSync backend API client settings.
	Backend BackendConfig `mapstructure:"backend"`
	// Identity contains identity provider client settings.
	Identity IdentityConfig `mapstructure:"identity"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// UI contains terminal UI behavior settings.
	UI UIConfig `mapstructure:"ui"`
	// DevServer contains settings for the bundled development backend.
	DevServer DevServerConfig `mapstructure:"dev_server"`
}

// BackendConfig holds backend API client configuration.
type BackendConfig struct {
	// BaseURL is the base URL of the ScholarSync backend API.
	BaseURL string `mapstructure:"base_url"`
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `mapstructure:"timeout"`
	// RateLimit is the maximum requests per second issued to the backend.
	RateLimit float64 `mapstructure:"rate_limit"`
	// BurstSize is the maximum burst of requests allowed.
	BurstSize int `mapstructure:"burst_size"`
	// UserAgent is the User-Agent header sent with requests.
	UserAgent string `mapstructure:"user_agent"`
}

// IdentityConfig holds identity provider client configuration.
type IdentityConfig struct {
	// BaseURL is the base URL of the identity provider.
	BaseURL string `mapstructure:"base_url"`
	// Timeout is the HTTP request timeout for identity calls.
	Timeout time.Duration `mapstructure:"timeout"`
	// APIKey is the identity provider API key (loaded from
	// SCHOLARSYNC_IDENTITY_API_KEY; never read from config files).
	APIKey string `mapstructure:"-"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr, file path).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// UIConfig holds terminal UI behavior settings.
type UIConfig struct {
	// ConfirmationTTL is how long success confirmations stay on screen
	// before auto-dismissing.
	ConfirmationTTL time.Duration `mapstructure:"confirmation_ttl"`
	// SearchDatabases is the default set of databases searched.
	SearchDatabases []string `mapstructure:"search_databases"`
	// SuggestedTopics are the one-tap search suggestions on the dashboard.
	SuggestedTopics []string `mapstructure:"suggested_topics"`
}

// DevServerConfig holds settings for the bundled development backend.
type DevServerConfig struct {
	// Host is the address to bind the server to.
	Host string `mapstructure:"host"`
	// Port is the HTTP server port.
	Port int `mapstructure:"port"`
	// ReadTimeout is the maximum duration for reading request body.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the maximum duration for writing response.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MetricsEnabled enables the Prometheus /metrics endpoint.
	MetricsEnabled bool `mapstructure:"metrics_enabled"`
}

// Address returns the dev server bind address.
func (c *DevServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("SCHOLARSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/scholarsync")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	loadSecrets(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadSecrets populates secret fields exclusively from environment variables.
// These fields are tagged with mapstructure:"-" to prevent loading from config files.
func loadSecrets(cfg *Config) {
	cfg.Identity.APIKey = os.Getenv("SCHOLARSYNC_IDENTITY_API_KEY")
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Backend defaults
	v.SetDefault("backend.base_url", "http://127.0.0.1:8000")
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("backend.rate_limit", 10.0)
	v.SetDefault("backend.burst_size", 10)
	v.SetDefault("backend.user_agent", "ScholarSync-Client/1.0")

	// Identity defaults
	v.SetDefault("identity.base_url", "http://127.0.0.1:8000/identity")
	v.SetDefault("identity.timeout", "15s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// UI defaults
	v.SetDefault("ui.confirmation_ttl", "2s")
	v.SetDefault("ui.search_databases", []string{"arxiv"})
	v.SetDefault("ui.suggested_topics", []string{
		"Quantum Computing", "Climate Change", "Neural Networks", "Cybersecurity",
	})

	// Dev server defaults
	v.SetDefault("dev_server.host", "127.0.0.1")
	v.SetDefault("dev_server.port", 8000)
	v.SetDefault("dev_server.read_timeout", "30s")
	v.SetDefault("dev_server.write_timeout", "30s")
	v.SetDefault("dev_server.shutdown_timeout", "10s")
	v.SetDefault("dev_server.metrics_enabled", true)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url is required")
	}
	if _, err := url.Parse(c.Backend.BaseURL); err != nil {
		return fmt.Errorf("invalid backend base_url: %w", err)
	}
	if c.Backend.RateLimit <= 0 {
		return fmt.Errorf("backend rate_limit must be positive")
	}
	if c.Backend.BurstSize <= 0 {
		return fmt.Errorf("backend burst_size must be positive")
	}

	if c.Identity.BaseURL == "" {
		return fmt.Errorf("identity base_url is required")
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.UI.ConfirmationTTL <= 0 {
		return fmt.Errorf("ui confirmation_ttl must be positive")
	}

	if c.DevServer.Port <= 0 || c.DevServer.Port > 65535 {
		return fmt.Errorf("invalid dev server port: %d", c.DevServer.Port)
	}

	return nil
}
