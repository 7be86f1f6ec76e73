package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load_CreatesDefaultIfMissing(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	loader, err := NewLoader()
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultSourceURL, cfg.Source.URL)
	assert.Equal(t, 10*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 9, cfg.Catalog.PageSize)
	assert.Equal(t, 1, cfg.Catalog.MaxPages)
	assert.Equal(t, 24*time.Hour, cfg.Catalog.CacheTTL)
	assert.Equal(t, time.Second, cfg.Catalog.MinLatency)
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, filepath.Join(tmpHome, ".local", "share", "bookworm", "store.json"), cfg.Store.Path)
	assert.Equal(t, filepath.Join(tmpHome, ".local", "share", "bookworm", "badger"), cfg.Store.BadgerDir)
	assert.Equal(t, "bookworm:", cfg.Store.Redis.Prefix)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Empty(t, cfg.Server.RefreshSchedule)
	assert.Equal(t, filepath.Join(tmpHome, ".local", "share", "bookworm", "serve.log"), cfg.Server.LogFile)
	assert.NoError(t, cfg.Validate())

	// Verify file was created
	_, err = os.Stat(loader.Path())
	assert.NoError(t, err)
}

func TestLoader_Load_ReadsExistingConfig(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	configDir := filepath.Join(tmpHome, ".config", "bookworm")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	configContent := `
source:
  url: http://localhost:9000
  timeout: 3s
catalog:
  page_size: 20
  max_pages: 3
  cache_ttl: 0s
store:
  backend: badger
  badger_dir: ~/custom/badger
server:
  refresh_schedule: "0 */6 * * *"
`
	require.NoError(t, os.WriteFile(
		filepath.Join(configDir, "config.yaml"),
		[]byte(configContent),
		0644,
	))

	loader, err := NewLoader()
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.Source.URL)
	assert.Equal(t, 3*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 20, cfg.Catalog.PageSize)
	assert.Equal(t, 3, cfg.Catalog.MaxPages)
	assert.Equal(t, time.Duration(0), cfg.Catalog.CacheTTL)
	assert.Equal(t, "badger", cfg.Store.Backend)
	assert.Equal(t, filepath.Join(tmpHome, "custom", "badger"), cfg.Store.BadgerDir)
	assert.Equal(t, "0 */6 * * *", cfg.Server.RefreshSchedule)
	assert.NoError(t, cfg.Validate())
}

func TestLoader_Load_EnvVarOverride(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	t.Setenv("BOOKWORM_SOURCE_URL", "http://127.0.0.1:4000")
	t.Setenv("BOOKWORM_CATALOG_MIN_LATENCY", "0s")
	t.Setenv("BOOKWORM_STORE_BACKEND", "memory")

	loader, err := NewLoader()
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:4000", cfg.Source.URL)
	assert.Equal(t, time.Duration(0), cfg.Catalog.MinLatency)
	assert.Equal(t, "memory", cfg.Store.Backend)
}

func TestLoader_Path(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	loader, err := NewLoader()
	require.NoError(t, err)

	expected := filepath.Join(tmpHome, ".config", "bookworm", "config.yaml")
	assert.Equal(t, expected, loader.Path())
}

func TestLoader_Get(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	loader, err := NewLoader()
	require.NoError(t, err)

	_, err = loader.Load()
	require.NoError(t, err)

	t.Run("valid key returns value", func(t *testing.T) {
		val, err := loader.Get("source.url")
		require.NoError(t, err)
		assert.Equal(t, DefaultSourceURL, val)
	})

	t.Run("invalid key returns error", func(t *testing.T) {
		_, err := loader.Get("invalid.key")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestLoader_Set(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	loader, err := NewLoader()
	require.NoError(t, err)

	_, err = loader.Load()
	require.NoError(t, err)

	t.Run("sets valid key", func(t *testing.T) {
		err := loader.Set("catalog.page_size", "12")
		require.NoError(t, err)

		cfg, err := loader.Load()
		require.NoError(t, err)
		assert.Equal(t, 12, cfg.Catalog.PageSize)
	})

	t.Run("persists to the file", func(t *testing.T) {
		require.NoError(t, loader.Set("store.backend", "redis"))

		data, err := os.ReadFile(loader.Path())
		require.NoError(t, err)
		assert.Contains(t, string(data), "backend: redis")
	})

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{"rejects invalid key", "invalid.key", "value", ErrInvalidKey},
		{"rejects unknown backend", "store.backend", "sqlite", ErrInvalidBackend},
		{"rejects zero page size", "catalog.page_size", "0", ErrInvalidValue},
		{"rejects non-numeric page size", "catalog.page_size", "nine", ErrInvalidValue},
		{"rejects too many pages", "catalog.max_pages", "51", ErrInvalidValue},
		{"rejects bad duration", "catalog.cache_ttl", "tomorrow", ErrInvalidValue},
		{"rejects negative latency", "catalog.min_latency", "-1s", ErrInvalidValue},
		{"rejects zero timeout", "source.timeout", "0s", ErrInvalidValue},
		{"rejects bad schedule", "server.refresh_schedule", "every day", ErrInvalidValue},
		{"rejects bad url", "source.url", "not a url", ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := loader.Set(tt.key, tt.value)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("allows empty schedule", func(t *testing.T) {
		assert.NoError(t, loader.Set("server.refresh_schedule", ""))
	})

	t.Run("allows zero ttl", func(t *testing.T) {
		assert.NoError(t, loader.Set("catalog.cache_ttl", "0s"))
	})
}

func validConfig() *Config {
	return &Config{
		Source:  SourceConfig{URL: DefaultSourceURL, Timeout: 10 * time.Second},
		Catalog: CatalogConfig{PageSize: 9, MaxPages: 1, CacheTTL: 24 * time.Hour, MinLatency: time.Second},
		Store:   StoreConfig{Backend: "file", Path: "/tmp/store.json"},
		Server:  ServerConfig{Addr: DefaultServerAddr},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"page size too large", func(c *Config) { c.Catalog.PageSize = 101 }, "PageSize"},
		{"max pages zero", func(c *Config) { c.Catalog.MaxPages = 0 }, "MaxPages"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "sqlite" }, "Backend"},
		{"file backend without path", func(c *Config) { c.Store.Path = "" }, "Path"},
		{"badger backend without dir", func(c *Config) { c.Store.Backend = "badger" }, "BadgerDir"},
		{"missing source url", func(c *Config) { c.Source.URL = "" }, "URL"},
		{"zero timeout", func(c *Config) { c.Source.Timeout = 0 }, "Timeout"},
		{"bad schedule", func(c *Config) { c.Server.RefreshSchedule = "* *" }, "refresh_schedule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestIsValidBackend(t *testing.T) {
	for _, name := range ValidBackendNames() {
		assert.True(t, IsValidBackend(name), name)
	}
	assert.False(t, IsValidBackend("sqlite"))
	assert.False(t, IsValidBackend(""))
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"source.url is valid", "source.url", nil},
		{"catalog.page_size is valid", "catalog.page_size", nil},
		{"catalog.cache_ttl is valid", "catalog.cache_ttl", nil},
		{"store.redis.addr is valid", "store.redis.addr", nil},
		{"server.refresh_schedule is valid", "server.refresh_schedule", nil},
		{"server.log_file is valid", "server.log_file", nil},
		{"catalog section is valid", "catalog", nil},
		{"store.redis section is valid", "store.redis", nil},
		{"unknown.key returns error", "unknown.key", ErrInvalidKey},
		{"empty key returns error", "", ErrInvalidKey},
		{"random key returns error", "foo", ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoader_expandPath(t *testing.T) {
	tmpHome := "/home/test"
	loader := &Loader{homeDir: tmpHome}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"expands ~/ prefix", "~/foo", filepath.Join(tmpHome, "foo")},
		{"expands ~ alone", "~", tmpHome},
		{"preserves absolute path", "/absolute/path", "/absolute/path"},
		{"preserves relative path", "relative/path", "relative/path"},
		{"handles nested paths", "~/foo/bar/baz", filepath.Join(tmpHome, "foo", "bar", "baz")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loader.expandPath(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
