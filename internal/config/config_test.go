// ABOUTME: Tests for wellsync configuration management.
// ABOUTME: Covers load, save, env overrides, defaults, validation, and factories.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/wellsync/internal/cache"
	"github.com/harperreed/wellsync/internal/correlation"
	"github.com/harperreed/wellsync/internal/model"
	"github.com/harperreed/wellsync/internal/readiness"
	"github.com/rs/zerolog"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}

	if got := cfg.GetUserID(); got != "local" {
		t.Errorf("GetUserID() = %q, want %q", got, "local")
	}
	if got := cfg.GetWindowDays(); got != 30 {
		t.Errorf("GetWindowDays() = %d, want 30", got)
	}
	if got := cfg.GetMinSamples(); got != 5 {
		t.Errorf("GetMinSamples() = %d, want 5", got)
	}
	if got := cfg.GetWeights(); got != readiness.DefaultWeights() {
		t.Errorf("GetWeights() = %+v, want defaults", got)
	}
	if got := cfg.GetThresholds(); got != readiness.DefaultThresholds() {
		t.Errorf("GetThresholds() = %+v, want defaults", got)
	}
	if got := len(cfg.GetPairs()); got != len(correlation.DefaultPairs()) {
		t.Errorf("GetPairs() returned %d pairs, want %d", got, len(correlation.DefaultPairs()))
	}
	if got := cfg.GetCacheBackend(); got != "memory" {
		t.Errorf("GetCacheBackend() = %q, want %q", got, "memory")
	}
	if got := cfg.GetModelBackend(); got != "none" {
		t.Errorf("GetModelBackend() = %q, want %q", got, "none")
	}
	if got := cfg.GetModelTimeout(); got != 2*time.Second {
		t.Errorf("GetModelTimeout() = %v, want 2s", got)
	}
	if got := cfg.GetHTTPAddr(); got != DefaultHTTPAddr {
		t.Errorf("GetHTTPAddr() = %q, want %q", got, DefaultHTTPAddr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on empty config: %v", err)
	}
}

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetDataDir(); got == "" {
		t.Error("GetDataDir() returned empty string")
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/wellsync-data"}
	want := filepath.Join(home, "wellsync-data")
	if got := cfg.GetDataDir(); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/wellsync", filepath.Join(home, "data/wellsync")},
		{"data/wellsync", "data/wellsync"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	badWeights := readiness.DefaultWeights()
	badWeights.Mood = 0.9

	tests := []struct {
		name string
		cfg  Config
	}{
		{"weights", Config{Weights: &badWeights}},
		{"thresholds", Config{Thresholds: &readiness.Thresholds{High: 3, Moderate: 6}}},
		{"duplicate pairs", Config{Pairs: []correlation.Pair{{A: "mood", B: "energy"}, {A: "energy", B: "mood"}}}},
		{"cache backend", Config{Cache: CacheConfig{Backend: "memcached"}}},
		{"redis without addr", Config{Cache: CacheConfig{Backend: "redis"}}},
		{"model backend", Config{Model: ModelConfig{Backend: "magic"}}},
		{"http model without url", Config{Model: ModelConfig{Backend: "http"}}},
		{"log format", Config{LogFormat: "xml"}},
		{"window", Config{WindowDays: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.DataDir != "" || cfg.UserID != "" {
		t.Errorf("Expected empty config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	weights := readiness.Weights{SleepHours: 0.2, SleepQuality: 0.2, Mood: 0.2, Energy: 0.2, Stress: 0.2}
	cfg := &Config{
		DataDir: "/tmp/wellsync-data",
		UserID:  "alice",
		Weights: &weights,
		Cache:   CacheConfig{Backend: "badger", TTL: Duration(time.Hour)},
		Model:   ModelConfig{Backend: "http", URL: "http://model", Timeout: Duration(500 * time.Millisecond)},
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.DataDir != cfg.DataDir || loaded.UserID != "alice" {
		t.Errorf("Loaded config mismatch: %+v", loaded)
	}
	if loaded.GetWeights() != weights {
		t.Errorf("Weights mismatch: got %+v", loaded.GetWeights())
	}
	if loaded.GetCacheTTL() != time.Hour {
		t.Errorf("Cache TTL = %v, want 1h", loaded.GetCacheTTL())
	}
	if loaded.GetModelTimeout() != 500*time.Millisecond {
		t.Errorf("Model timeout = %v, want 500ms", loaded.GetModelTimeout())
	}
}

func TestDurationIsTextInJSON(t *testing.T) {
	data, err := json.Marshal(CacheConfig{TTL: Duration(90 * time.Second)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"ttl":"1m30s"}` {
		t.Errorf("Marshal = %s", data)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg := &Config{UserID: "from-file", WindowDays: 14}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	t.Setenv("WELLSYNC_USER_ID", "from-env")
	t.Setenv("WELLSYNC_CACHE_BACKEND", "redis")
	t.Setenv("WELLSYNC_REDIS_ADDR", "localhost:6379")
	t.Setenv("WELLSYNC_MODEL_TIMEOUT", "750ms")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.UserID != "from-env" {
		t.Errorf("UserID = %q, want env override", loaded.UserID)
	}
	if loaded.WindowDays != 14 {
		t.Errorf("WindowDays = %d, want file value 14", loaded.WindowDays)
	}
	if loaded.GetCacheBackend() != "redis" || loaded.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache = %+v, want redis override", loaded.Cache)
	}
	if loaded.GetModelTimeout() != 750*time.Millisecond {
		t.Errorf("Model timeout = %v, want 750ms", loaded.GetModelTimeout())
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	cfg := &Config{UserID: "bob"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "wellsync")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "wellsync")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	want := filepath.Join(tmpDir, "wellsync", "config.json")
	if got := GetConfigPath(); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorage(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{DataDir: tmpDir}

	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() failed: %v", err)
	}
	defer repo.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "wellsync.db")); os.IsNotExist(err) {
		t.Error("Expected wellsync.db to be created")
	}
}

func TestOpenCache(t *testing.T) {
	tmpDir := t.TempDir()

	mem, err := (&Config{}).OpenCache(zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenCache(memory) failed: %v", err)
	}
	if _, ok := mem.(*cache.Memory); !ok {
		t.Errorf("Expected *cache.Memory, got %T", mem)
	}

	b, err := (&Config{DataDir: tmpDir, Cache: CacheConfig{Backend: "badger"}}).OpenCache(zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenCache(badger) failed: %v", err)
	}
	defer b.Close()
	if _, ok := b.(*cache.Badger); !ok {
		t.Errorf("Expected *cache.Badger, got %T", b)
	}

	if _, err := (&Config{Cache: CacheConfig{Backend: "nope"}}).OpenCache(zerolog.Nop()); err == nil {
		t.Error("Expected error for unknown cache backend")
	}
}

func TestOpenModel(t *testing.T) {
	p, err := (&Config{}).OpenModel()
	if err != nil || p != nil {
		t.Errorf("OpenModel(none) = %v, %v; want nil, nil", p, err)
	}

	p, err = (&Config{Model: ModelConfig{Backend: "personal"}}).OpenModel()
	if err != nil {
		t.Fatalf("OpenModel(personal) failed: %v", err)
	}
	if _, ok := p.(*model.Personalizer); !ok {
		t.Errorf("Expected *model.Personalizer, got %T", p)
	}

	p, err = (&Config{Model: ModelConfig{Backend: "http", URL: "http://localhost:9"}}).OpenModel()
	if err != nil {
		t.Fatalf("OpenModel(http) failed: %v", err)
	}
	if _, ok := p.(*model.HTTPClient); !ok {
		t.Errorf("Expected *model.HTTPClient, got %T", p)
	}

	if _, err := (&Config{Model: ModelConfig{Backend: "http"}}).OpenModel(); err == nil {
		t.Error("Expected error for http model without url")
	}
}
