package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/omnicontacts/pkg/config"
)

type testConfig struct {
	ClientID string        `env:"TEST_OAUTH_CLIENT_ID,required"`
	BasePath string        `env:"TEST_BASE_PATH" envDefault:"/contacts"`
	StateTTL time.Duration `env:"TEST_STATE_TTL" envDefault:"10m"`
	PageSize int           `env:"TEST_PAGE_SIZE" envDefault:"100"`
}

func TestLoad(t *testing.T) {
	t.Run("parses tagged fields from the environment", func(t *testing.T) {
		t.Setenv("TEST_OAUTH_CLIENT_ID", "cid")
		t.Setenv("TEST_STATE_TTL", "5m")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "cid", cfg.ClientID)
		assert.Equal(t, "/contacts", cfg.BasePath)
		assert.Equal(t, 5*time.Minute, cfg.StateTTL)
		assert.Equal(t, 100, cfg.PageSize)
	})

	t.Run("missing required variable fails", func(t *testing.T) {
		t.Setenv("TEST_OAUTH_CLIENT_ID", "") // registers cleanup restoring the original value
		os.Unsetenv("TEST_OAUTH_CLIENT_ID")

		var cfg testConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("unparsable value fails", func(t *testing.T) {
		t.Setenv("TEST_OAUTH_CLIENT_ID", "cid")
		t.Setenv("TEST_PAGE_SIZE", "not-a-number")

		var cfg testConfig
		assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
	})

	t.Run("nil pointer is rejected", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[testConfig](nil), config.ErrNilPointer)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics when parsing fails", func(t *testing.T) {
		t.Setenv("TEST_OAUTH_CLIENT_ID", "") // registers cleanup restoring the original value
		os.Unsetenv("TEST_OAUTH_CLIENT_ID")

		assert.Panics(t, func() {
			var cfg testConfig
			config.MustLoad(&cfg)
		})
	})

	t.Run("returns silently on success", func(t *testing.T) {
		t.Setenv("TEST_OAUTH_CLIENT_ID", "cid")

		assert.NotPanics(t, func() {
			var cfg testConfig
			config.MustLoad(&cfg)
		})
	})
}

func TestLoadEnv(t *testing.T) {
	t.Run("missing file is an error", func(t *testing.T) {
		assert.ErrorIs(t, config.LoadEnv("testdata/does-not-exist.env"), config.ErrLoadingEnvFile)
	})
}
