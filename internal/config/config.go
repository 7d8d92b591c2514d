// ABOUTME: WellSync configuration with file, environment, and default layers.
// ABOUTME: Also builds the storage, cache, and scoring model the config selects.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/harperreed/wellsync/internal/cache"
	"github.com/harperreed/wellsync/internal/correlation"
	"github.com/harperreed/wellsync/internal/model"
	"github.com/harperreed/wellsync/internal/readiness"
	"github.com/harperreed/wellsync/internal/storage"
	"github.com/harperreed/wellsync/internal/trend"
	"github.com/rs/zerolog"
)

// Defaults for unset fields.
const (
	DefaultUserID    = "local"
	DefaultHTTPAddr  = "127.0.0.1:8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// Duration is a time.Duration written as text ("2s", "24h") in JSON and env.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// CacheConfig selects the insight cache backend.
type CacheConfig struct {
	// Backend is "memory" (default), "redis", or "badger".
	Backend   string   `json:"backend,omitempty" env:"WELLSYNC_CACHE_BACKEND"`
	RedisAddr string   `json:"redis_addr,omitempty" env:"WELLSYNC_REDIS_ADDR"`
	TTL       Duration `json:"ttl,omitempty" env:"WELLSYNC_CACHE_TTL"`
}

// ModelConfig selects the scoring model consulted before the rules.
type ModelConfig struct {
	// Backend is "none" (default), "http", or "personal".
	Backend       string   `json:"backend,omitempty" env:"WELLSYNC_MODEL_BACKEND"`
	URL           string   `json:"url,omitempty" env:"WELLSYNC_MODEL_URL"`
	Timeout       Duration `json:"timeout,omitempty" env:"WELLSYNC_MODEL_TIMEOUT"`
	RatePerSecond float64  `json:"rate_per_second,omitempty" env:"WELLSYNC_MODEL_RATE"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr string `json:"addr,omitempty" env:"WELLSYNC_HTTP_ADDR"`
}

// Config stores wellsync configuration.
type Config struct {
	// DataDir is the root directory for data storage. wellsync.db and the
	// badger cache live here. Supports ~ expansion. Defaults to ~/.local/share/wellsync.
	DataDir string `json:"data_dir,omitempty" env:"WELLSYNC_DATA_DIR"`

	// UserID is the identity used by the CLI and MCP server.
	UserID string `json:"user_id,omitempty" env:"WELLSYNC_USER_ID"`

	WindowDays int                   `json:"window_days,omitempty" env:"WELLSYNC_WINDOW_DAYS"`
	MinSamples int                   `json:"min_samples,omitempty" env:"WELLSYNC_MIN_SAMPLES"`
	Weights    *readiness.Weights    `json:"weights,omitempty"`
	Thresholds *readiness.Thresholds `json:"thresholds,omitempty"`
	Pairs      []correlation.Pair    `json:"pairs,omitempty"`
	Cache      CacheConfig           `json:"cache,omitempty"`
	Model      ModelConfig           `json:"model,omitempty"`
	HTTP       HTTPConfig            `json:"http,omitempty"`
	LogLevel   string                `json:"log_level,omitempty" env:"WELLSYNC_LOG_LEVEL"`
	LogFormat  string                `json:"log_format,omitempty" env:"WELLSYNC_LOG_FORMAT"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetUserID returns the configured user, defaulting to "local".
func (c *Config) GetUserID() string {
	if c.UserID == "" {
		return DefaultUserID
	}
	return c.UserID
}

// GetWindowDays returns the insight window, defaulting to 30 days.
func (c *Config) GetWindowDays() int {
	if c.WindowDays <= 0 {
		return trend.DefaultWindowDays
	}
	return c.WindowDays
}

// GetMinSamples returns the correlation sample floor, defaulting to 5.
func (c *Config) GetMinSamples() int {
	if c.MinSamples <= 0 {
		return correlation.DefaultMinSamples
	}
	return c.MinSamples
}

// GetWeights returns the readiness weights, defaulting to DefaultWeights.
func (c *Config) GetWeights() readiness.Weights {
	if c.Weights == nil {
		return readiness.DefaultWeights()
	}
	return *c.Weights
}

// GetThresholds returns the intensity thresholds, defaulting to 7 and 4.
func (c *Config) GetThresholds() readiness.Thresholds {
	if c.Thresholds == nil {
		return readiness.DefaultThresholds()
	}
	return *c.Thresholds
}

// GetPairs returns the correlation pairs, defaulting to DefaultPairs.
func (c *Config) GetPairs() []correlation.Pair {
	if len(c.Pairs) == 0 {
		return correlation.DefaultPairs()
	}
	return c.Pairs
}

// GetCacheBackend returns the cache backend, defaulting to "memory".
func (c *Config) GetCacheBackend() string {
	if c.Cache.Backend == "" {
		return "memory"
	}
	return c.Cache.Backend
}

// GetCacheTTL returns the cache TTL, defaulting to cache.DefaultTTL.
func (c *Config) GetCacheTTL() time.Duration {
	if c.Cache.TTL <= 0 {
		return cache.DefaultTTL
	}
	return time.Duration(c.Cache.TTL)
}

// GetModelBackend returns the model backend, defaulting to "none".
func (c *Config) GetModelBackend() string {
	if c.Model.Backend == "" {
		return "none"
	}
	return c.Model.Backend
}

// GetModelTimeout returns the per-call model timeout, defaulting to 2s.
func (c *Config) GetModelTimeout() time.Duration {
	if c.Model.Timeout <= 0 {
		return readiness.DefaultModelTimeout
	}
	return time.Duration(c.Model.Timeout)
}

// GetHTTPAddr returns the API listen address.
func (c *Config) GetHTTPAddr() string {
	if c.HTTP.Addr == "" {
		return DefaultHTTPAddr
	}
	return c.HTTP.Addr
}

// GetLogLevel returns the log level, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return c.LogLevel
}

// GetLogFormat returns the log format, defaulting to "console".
func (c *Config) GetLogFormat() string {
	if c.LogFormat == "" {
		return DefaultLogFormat
	}
	return c.LogFormat
}

// Validate checks every configured value that has a constrained domain.
func (c *Config) Validate() error {
	if c.WindowDays < 0 {
		return fmt.Errorf("window_days must be positive, got %d", c.WindowDays)
	}
	if err := c.GetWeights().Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if err := c.GetThresholds().Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	if err := correlation.ValidatePairs(c.GetPairs()); err != nil {
		return fmt.Errorf("pairs: %w", err)
	}

	switch c.GetCacheBackend() {
	case "memory", "badger":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}

	switch c.GetModelBackend() {
	case "none", "personal":
	case "http":
		if c.Model.URL == "" {
			return fmt.Errorf("model.url is required for the http backend")
		}
	default:
		return fmt.Errorf("unknown model backend: %q", c.Model.Backend)
	}

	switch c.GetLogFormat() {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format: %q", c.LogFormat)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite signal store in the data directory.
func (c *Config) OpenStorage() (storage.Repository, error) {
	return storage.Open(filepath.Join(c.GetDataDir(), "wellsync.db"))
}

// OpenCache creates the configured insight cache.
func (c *Config) OpenCache(logger zerolog.Logger) (cache.Cache, error) {
	ttl := c.GetCacheTTL()
	switch backend := c.GetCacheBackend(); backend {
	case "memory":
		return cache.NewMemory(ttl), nil
	case "redis":
		if c.Cache.RedisAddr == "" {
			return nil, fmt.Errorf("cache.redis_addr is required for the redis backend")
		}
		return cache.NewRedis(c.Cache.RedisAddr, ttl, logger), nil
	case "badger":
		return cache.OpenBadger(filepath.Join(c.GetDataDir(), "cache"), ttl, logger)
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", backend)
	}
}

// OpenModel creates the configured scoring model, or nil for "none".
func (c *Config) OpenModel() (model.Predictor, error) {
	switch backend := c.GetModelBackend(); backend {
	case "none":
		return nil, nil
	case "personal":
		return model.NewPersonalizer(), nil
	case "http":
		client, err := model.NewHTTPClient(model.HTTPConfig{
			URL:           c.Model.URL,
			Timeout:       c.GetModelTimeout(),
			RatePerSecond: c.Model.RatePerSecond,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown model backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "wellsync", "config.json")
}

// Load reads config from disk, then applies WELLSYNC_* environment overrides.
func Load() (*Config, error) {
	cfg, err := loadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
