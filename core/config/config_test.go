package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inklet/inklet/core/config"
)

type testConfig struct {
	Endpoint string        `env:"CONFIG_TEST_ENDPOINT" envDefault:"http://localhost:5000"`
	Timeout  time.Duration `env:"CONFIG_TEST_TIMEOUT" envDefault:"15s"`
}

type cachedConfig struct {
	Value string `env:"CONFIG_TEST_CACHED" envDefault:"initial"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults and environment overrides", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_ENDPOINT", "https://blog.example.com")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "https://blog.example.com", cfg.Endpoint)
		assert.Equal(t, 15*time.Second, cfg.Timeout)
	})

	t.Run("caches the first loaded value per type", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_CACHED", "first")

		var first cachedConfig
		require.NoError(t, config.Load(&first))
		assert.Equal(t, "first", first.Value)

		t.Setenv("CONFIG_TEST_CACHED", "second")

		var second cachedConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, "first", second.Value, "later loads must return the cached value")
	})

	t.Run("rejects nil target", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		require.ErrorIs(t, err, config.ErrNilConfig)
	})
}
