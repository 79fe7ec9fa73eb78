package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8082, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, SourceCSV, cfg.Dataset.Source)
	assert.Equal(t, "archive/food-dataset-en.csv", cfg.Dataset.Path)
	assert.Equal(t, 5000, cfg.Dataset.MaxRows)
	assert.Equal(t, 500, cfg.Recommend.DefaultMaxCalories)
	assert.Equal(t, 5, cfg.Recommend.DefaultLimit)
	assert.Equal(t, 100, cfg.Recommend.MaxLimit)
	assert.False(t, cfg.Recommend.IncludeUnmatched)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 5, cfg.Queue.Workers)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, time.Second, cfg.DedupWindow)
	assert.Equal(t, int64(10*1024*1024), cfg.Image.MaxSizeBytes)
	assert.Equal(t, int64(40_000_000), cfg.Image.MaxPixels)
	assert.False(t, cfg.Classifier.Enabled)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_RECOMMEND_DEFAULT_LIMIT", "3")
	t.Setenv("APP_CACHE_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("APP_DATASET_MAX_ROWS", "0")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Recommend.DefaultLimit)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis://cache:6379/1", cfg.Cache.RedisURL)
	assert.Equal(t, 0, cfg.Dataset.MaxRows)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]any
	}{
		{"unknown source", map[string]any{"dataset.source": "parquet"}},
		{"sql without dsn", map[string]any{"dataset.source": "sql"}},
		{"default above max", map[string]any{"recommend.default_limit": 200}},
		{"zero limit", map[string]any{"recommend.default_limit": 0}},
		{"negative calories", map[string]any{"recommend.default_max_calories": -1}},
		{"unknown cache", map[string]any{"cache.backend": "memcached"}},
		{"zero queue", map[string]any{"queue.workers": 0}},
		{"classifier without url", map[string]any{"classifier.enabled": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}

func TestLoadDisabledCacheSkipsBackendChecks(t *testing.T) {
	v := viper.New()
	v.Set("cache.enabled", false)
	v.Set("cache.backend", "anything")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RECIPE_TEST_DOTENV=loaded\n"), 0o600))
	t.Setenv("RECIPE_TEST_DOTENV", "")
	os.Unsetenv("RECIPE_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("RECIPE_TEST_DOTENV"))
}
