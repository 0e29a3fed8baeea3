package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 10.0, cfg.Backend.RateLimit)
	assert.Equal(t, 10, cfg.Backend.BurstSize)
	assert.Equal(t, "ScholarSync-Client/1.0", cfg.Backend.UserAgent)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	assert.Equal(t, 2*time.Second, cfg.UI.ConfirmationTTL)
	assert.Equal(t, []string{"arxiv"}, cfg.UI.SearchDatabases)
	assert.Len(t, cfg.UI.SuggestedTopics, 4)

	assert.Equal(t, "127.0.0.1:8000", cfg.DevServer.Address())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SCHOLARSYNC_BACKEND_BASE_URL", "https://api.scholarsync.example")
	t.Setenv("SCHOLARSYNC_LOGGING_LEVEL", "debug")
	t.Setenv("SCHOLARSYNC_UI_CONFIRMATION_TTL", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.scholarsync.example", cfg.Backend.BaseURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5*time.Second, cfg.UI.ConfirmationTTL)
}

func TestLoadSecretsFromEnvOnly(t *testing.T) {
	t.Setenv("SCHOLARSYNC_IDENTITY_API_KEY", "secret-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.Identity.APIKey)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Backend: BackendConfig{
				BaseURL:   "http://127.0.0.1:8000",
				RateLimit: 10,
				BurstSize: 10,
			},
			Identity: IdentityConfig{BaseURL: "http://127.0.0.1:8000/identity"},
			Logging:  LoggingConfig{Level: "info"},
			UI:       UIConfig{ConfirmationTTL: 2 * time.Second},
			DevServer: DevServerConfig{
				Host: "127.0.0.1",
				Port: 8000,
			},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing backend base_url", func(t *testing.T) {
		cfg := valid()
		cfg.Backend.BaseURL = ""
		assert.ErrorContains(t, cfg.Validate(), "backend base_url is required")
	})

	t.Run("non-positive rate limit", func(t *testing.T) {
		cfg := valid()
		cfg.Backend.RateLimit = 0
		assert.ErrorContains(t, cfg.Validate(), "rate_limit must be positive")
	})

	t.Run("invalid log level", func(t *testing.T) {
		cfg := valid()
		cfg.Logging.Level = "verbose"
		assert.ErrorContains(t, cfg.Validate(), "invalid log level")
	})

	t.Run("non-positive confirmation ttl", func(t *testing.T) {
		cfg := valid()
		cfg.UI.ConfirmationTTL = 0
		assert.ErrorContains(t, cfg.Validate(), "confirmation_ttl must be positive")
	})

	t.Run("invalid dev server port", func(t *testing.T) {
		cfg := valid()
		cfg.DevServer.Port = 0
		assert.ErrorContains(t, cfg.Validate(), "invalid dev server port")
	})
}
