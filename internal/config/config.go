// Package config provides configuration management for bookworm.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultConfigDir  = ".config/bookworm"
	DefaultConfigFile = "config.yaml"
	DefaultDataDir    = ".local/share/bookworm"
	DefaultSourceURL  = "https://gutendex.com"
	DefaultServerAddr = "127.0.0.1:8080"
)

// Sentinel errors for configuration operations.
var (
	ErrInvalidKey     = errors.New("invalid configuration key")
	ErrInvalidValue   = errors.New("invalid configuration value")
	ErrInvalidBackend = errors.New("invalid store backend")
	ErrNoEditor       = errors.New("$EDITOR environment variable not set")
)

// validBackends contains the allowed store backend names (unexported).
var validBackends = map[string]bool{
	"file":   true,
	"badger": true,
	"redis":  true,
	"memory": true,
}

// validKeys is built once from Config struct reflection.
var validKeys = buildValidKeys()

// validate is the shared validator instance.
var validate = validator.New()

// Config represents the full bookworm configuration.
type Config struct {
	Source  SourceConfig  `mapstructure:"source" yaml:"source" validate:"required"`
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog" validate:"required"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store" validate:"required"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
}

// SourceConfig describes the Gutendex endpoint.
type SourceConfig struct {
	URL     string        `mapstructure:"url" yaml:"url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
}

// CatalogConfig tunes the catalog controller.
type CatalogConfig struct {
	PageSize   int           `mapstructure:"page_size" yaml:"page_size" validate:"min=1,max=100"`
	MaxPages   int           `mapstructure:"max_pages" yaml:"max_pages" validate:"min=1,max=50"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl" validate:"gte=0"`
	MinLatency time.Duration `mapstructure:"min_latency" yaml:"min_latency" validate:"gte=0"`
}

// StoreConfig selects and configures the key-value store.
type StoreConfig struct {
	Backend   string      `mapstructure:"backend" yaml:"backend" validate:"oneof=file badger redis memory"`
	Path      string      `mapstructure:"path" yaml:"path" validate:"required_if=Backend file"`
	BadgerDir string      `mapstructure:"badger_dir" yaml:"badger_dir" validate:"required_if=Backend badger"`
	Redis     RedisConfig `mapstructure:"redis" yaml:"redis"`
}

// RedisConfig holds the redis backend settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db" validate:"gte=0"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix"`
}

// ServerConfig holds the JSON API settings.
type ServerConfig struct {
	Addr            string `mapstructure:"addr" yaml:"addr" validate:"required"`
	RefreshSchedule string `mapstructure:"refresh_schedule" yaml:"refresh_schedule"`

	// LogFile receives a copy of the server log. Empty disables it.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
}

// Validate checks the configuration for errors using struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := checkSchedule(c.Server.RefreshSchedule); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Loader provides configuration loading and saving.
type Loader struct {
	v       *viper.Viper
	path    string
	homeDir string
}

// NewLoader creates a new configuration loader.
func NewLoader() (*Loader, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}

	configPath := filepath.Join(home, DefaultConfigDir, DefaultConfigFile)

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// BOOKWORM_CATALOG_PAGE_SIZE overrides catalog.page_size, and so on.
	v.SetEnvPrefix("BOOKWORM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("source.url", "BOOKWORM_SOURCE_URL", "GUTENDEX_URL")

	l := &Loader{
		v:       v,
		path:    configPath,
		homeDir: home,
	}

	l.setDefaults()

	return l, nil
}

// setDefaults sets all default configuration values using Viper.
func (l *Loader) setDefaults() {
	l.v.SetDefault("source.url", DefaultSourceURL)
	l.v.SetDefault("source.timeout", "10s")
	l.v.SetDefault("catalog.page_size", 9)
	l.v.SetDefault("catalog.max_pages", 1)
	l.v.SetDefault("catalog.cache_ttl", "24h")
	l.v.SetDefault("catalog.min_latency", "1s")
	l.v.SetDefault("store.backend", "file")
	l.v.SetDefault("store.path", "~/.local/share/bookworm/store.json")
	l.v.SetDefault("store.badger_dir", "~/.local/share/bookworm/badger")
	l.v.SetDefault("store.redis.addr", "localhost:6379")
	l.v.SetDefault("store.redis.password", "")
	l.v.SetDefault("store.redis.db", 0)
	l.v.SetDefault("store.redis.prefix", "bookworm:")
	l.v.SetDefault("server.addr", DefaultServerAddr)
	l.v.SetDefault("server.refresh_schedule", "")
	l.v.SetDefault("server.log_file", "~/.local/share/bookworm/serve.log")
}

// Load reads the configuration file, creating defaults if it doesn't exist.
func (l *Loader) Load() (*Config, error) {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		if err := l.createDefault(); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Store.Path = l.expandPath(cfg.Store.Path)
	cfg.Store.BadgerDir = l.expandPath(cfg.Store.BadgerDir)
	cfg.Server.LogFile = l.expandPath(cfg.Server.LogFile)

	return &cfg, nil
}

// Path returns the configuration file path.
func (l *Loader) Path() string {
	return l.path
}

// Get returns a configuration value by dot-notation key.
func (l *Loader) Get(key string) (any, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	return l.v.Get(key), nil
}

// Set sets a configuration value by dot-notation key and writes the file.
func (l *Loader) Set(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := checkValue(key, value); err != nil {
		return err
	}

	l.v.Set(key, value)
	return l.v.WriteConfig()
}

// createDefault writes the default configuration file using Viper.
func (l *Loader) createDefault() error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	return l.v.SafeWriteConfigAs(l.path)
}

// expandPath replaces ~ with the home directory.
func (l *Loader) expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(l.homeDir, path[2:])
	}
	if path == "~" {
		return l.homeDir
	}
	return path
}

// checkValue rejects values that would not survive Load and Validate.
func checkValue(key, value string) error {
	switch key {
	case "store.backend":
		if !validBackends[value] {
			return fmt.Errorf("%w: %s (valid: %s)", ErrInvalidBackend, value, strings.Join(ValidBackendNames(), ", "))
		}
	case "source.timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %s must be a positive duration", ErrInvalidValue, key)
		}
	case "catalog.cache_ttl", "catalog.min_latency":
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("%w: %s must be a non-negative duration", ErrInvalidValue, key)
		}
	case "catalog.page_size":
		return checkInt(key, value, 1, 100)
	case "catalog.max_pages":
		return checkInt(key, value, 1, 50)
	case "store.redis.db":
		return checkInt(key, value, 0, 15)
	case "server.refresh_schedule":
		if err := checkSchedule(value); err != nil {
			return err
		}
	case "source.url":
		if err := validate.Var(value, "required,url"); err != nil {
			return fmt.Errorf("%w: %s must be a URL", ErrInvalidValue, key)
		}
	}
	return nil
}

func checkInt(key, value string, lo, hi int) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < lo || n > hi {
		return fmt.Errorf("%w: %s must be an integer in %d..%d", ErrInvalidValue, key, lo, hi)
	}
	return nil
}

// checkSchedule parses a standard five-field cron spec. Empty is allowed.
func checkSchedule(spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("%w: server.refresh_schedule: %w", ErrInvalidValue, err)
	}
	return nil
}

// ValidateKey checks if a key is a valid configuration key.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	if validKeys[key] {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrInvalidKey, key)
}

// buildValidKeys builds the set of valid keys from Config struct using reflection.
func buildValidKeys() map[string]bool {
	keys := make(map[string]bool)
	addKeysFromType(reflect.TypeOf(Config{}), "", keys)
	return keys
}

// addKeysFromType recursively adds keys from a struct type.
func addKeysFromType(t reflect.Type, prefix string, keys map[string]bool) {
	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		keys[key] = true

		// time.Duration is not a struct, so only sections recurse.
		if field.Type.Kind() == reflect.Struct {
			addKeysFromType(field.Type, key, keys)
		}
	}
}

// IsValidBackend reports whether name is a known store backend.
func IsValidBackend(name string) bool {
	return validBackends[name]
}

// ValidBackendNames returns the list of valid store backend names.
func ValidBackendNames() []string {
	return []string{"file", "badger", "redis", "memory"}
}
