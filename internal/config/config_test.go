package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(WithEnv(noEnv))
	require.NoError(t, err)

	assert.Equal(t, domain.AngleDegrees, cfg.AngleMode)
	assert.Equal(t, domain.ThemeLight, cfg.Theme)
	assert.Equal(t, StoreMemory, cfg.Store.Kind)
	assert.Equal(t, 30*time.Second, cfg.Store.Redis.LockTTL)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.True(t, cfg.HTTP.Metrics)
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abacus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
angle_mode: rad
store:
  kind: redis
  redis:
    addr: redis:6379
    ttl: 1h
http:
  addr: ":9000"
`), 0644))

	cfg, err := Load(
		WithFile(path),
		WithEnv(envMap(map[string]string{
			"ABACUS_HTTP_ADDR":      ":9100",
			"ABACUS_STORE_REDIS_DB": "2",
			"ABACUS_HTTP_METRICS":   "false",
		})),
		WithOverride("http.addr", ":9200"),
	)
	require.NoError(t, err)

	assert.Equal(t, domain.AngleRadians, cfg.AngleMode)
	assert.Equal(t, StoreRedis, cfg.Store.Kind)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, "abacus:session:", cfg.Store.Redis.Prefix)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.False(t, cfg.HTTP.Metrics)
	assert.Equal(t, ":9200", cfg.HTTP.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("Bad enum values", func(t *testing.T) {
		_, err := Load(WithEnv(noEnv), WithOverride("theme", "sepia"), WithOverride("store.kind", "sql"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "theme must be light or dark")
		assert.Contains(t, err.Error(), "store.kind must be")
	})

	t.Run("Unknown key in file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "abacus.yaml")
		require.NoError(t, os.WriteFile(path, []byte("colour: blue\n"), 0644))
		_, err := Load(WithEnv(noEnv), WithFile(path))
		assert.ErrorContains(t, err, "invalid config")
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(WithEnv(noEnv), WithFile(filepath.Join(t.TempDir(), "nope.yaml")))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "ABACUS_STORE_REDIS_LOCK_TTL", EnvName("store.redis.lock_ttl"))
	assert.Contains(t, Keys(), "store.redis.lock_ttl")
	assert.Contains(t, Keys(), "max_input_size")
}
