package config

import (
	"os"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func createTestConfigFile(t *testing.T, content string) string {
	tmpFile, err := os.CreateTemp("", "gateway_config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}

	if err := tmpFile.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	return tmpFile.Name()
}

func TestLoadConfig(t *testing.T) {
	logger := zaptest.NewLogger(t)

	validConfig := `
listen_addr: ":9090"
origin: "http://app:3000"

worker:
  cache_generation: "lotto-oracle-v4"
  precache_urls:
    - "/"
    - "/offline.html"
  ignore_patterns:
    - "chrome-extension"
  offline_fallback_url: "/offline.html"

memory:
  enabled: true
  size_mb: 128

redis:
  enabled: true
  read_timeout_seconds: 3
  write_timeout_seconds: 5
`

	configFile := createTestConfigFile(t, validConfig)
	defer os.Remove(configFile)

	config, err := LoadConfig(configFile, logger)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.ListenAddr != ":9090" {
		t.Errorf("LoadConfig() ListenAddr = %v, want :9090", config.ListenAddr)
	}
	if config.Origin != "http://app:3000" {
		t.Errorf("LoadConfig() Origin = %v, want http://app:3000", config.Origin)
	}

	if config.Worker.CacheGeneration != "lotto-oracle-v4" {
		t.Errorf("LoadConfig() Worker.CacheGeneration = %v, want lotto-oracle-v4", config.Worker.CacheGeneration)
	}
	if len(config.Worker.PrecacheURLs) != 2 {
		t.Errorf("LoadConfig() Worker.PrecacheURLs length = %v, want 2", len(config.Worker.PrecacheURLs))
	}

	if !config.Memory.Enabled {
		t.Errorf("LoadConfig() Memory.Enabled = false, want true")
	}
	if config.Memory.SizeMB != 128 {
		t.Errorf("LoadConfig() Memory.SizeMB = %v, want 128", config.Memory.SizeMB)
	}

	if !config.Redis.Enabled {
		t.Errorf("LoadConfig() Redis.Enabled = false, want true")
	}
	if config.Redis.ReadTimeoutSeconds != 3 {
		t.Errorf("LoadConfig() Redis.ReadTimeoutSeconds = %v, want 3", config.Redis.ReadTimeoutSeconds)
	}
}

func TestLoadConfig_WithDefaults(t *testing.T) {
	logger := zaptest.NewLogger(t)

	minimalConfig := `
origin: "http://app:3000"
`

	configFile := createTestConfigFile(t, minimalConfig)
	defer os.Remove(configFile)

	config, err := LoadConfig(configFile, logger)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.ListenAddr != ":8080" {
		t.Errorf("LoadConfig() ListenAddr = %v, want :8080 (default)", config.ListenAddr)
	}
	if config.Worker.CacheGeneration != "lotto-oracle-v3.0.0" {
		t.Errorf("LoadConfig() Worker.CacheGeneration = %v, want lotto-oracle-v3.0.0 (default)", config.Worker.CacheGeneration)
	}
	if len(config.Worker.PrecacheURLs) != 5 {
		t.Errorf("LoadConfig() Worker.PrecacheURLs length = %v, want 5 (default)", len(config.Worker.PrecacheURLs))
	}
	if config.Worker.OfflineFallbackURL != "/offline.html" {
		t.Errorf("LoadConfig() Worker.OfflineFallbackURL = %v, want /offline.html (default)", config.Worker.OfflineFallbackURL)
	}
	if config.Memory.SizeMB != 64 {
		t.Errorf("LoadConfig() Memory.SizeMB = %v, want 64 (default)", config.Memory.SizeMB)
	}
	if config.Redis.ReadTimeoutSeconds != 2 {
		t.Errorf("LoadConfig() Redis.ReadTimeoutSeconds = %v, want 2 (default)", config.Redis.ReadTimeoutSeconds)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	logger := zaptest.NewLogger(t)

	_, err := LoadConfig("/nonexistent/file.yaml", logger)
	if err == nil {
		t.Fatal("LoadConfig() should return error for nonexistent file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	logger := zaptest.NewLogger(t)

	invalidConfig := `
worker:
  cache_generation: "v1"
  invalid yaml syntax [
`

	configFile := createTestConfigFile(t, invalidConfig)
	defer os.Remove(configFile)

	_, err := LoadConfig(configFile, logger)
	if err == nil {
		t.Fatal("LoadConfig() should return error for invalid YAML")
	}
}

func TestLoadConfig_MissingOrigin(t *testing.T) {
	logger := zaptest.NewLogger(t)

	// Everything else has a default; the origin does not.
	configFile := createTestConfigFile(t, `listen_addr: ":8080"`)
	defer os.Remove(configFile)

	_, err := LoadConfig(configFile, logger)
	if err == nil {
		t.Fatal("LoadConfig() should return error when origin is missing")
	}
}

func TestLoadConfig_InvalidOriginURL(t *testing.T) {
	logger := zaptest.NewLogger(t)

	configFile := createTestConfigFile(t, `origin: "not a url"`)
	defer os.Remove(configFile)

	_, err := LoadConfig(configFile, logger)
	if err == nil {
		t.Fatal("LoadConfig() should return error for a malformed origin URL")
	}
}

func TestConfig_TimeoutMethods(t *testing.T) {
	config := &Config{
		Redis: RedisConfig{
			ReadTimeoutSeconds:  3,
			WriteTimeoutSeconds: 5,
		},
	}

	tests := []struct {
		name     string
		method   func() time.Duration
		expected time.Duration
	}{
		{
			name:     "GetReadTimeout",
			method:   config.Redis.GetReadTimeout,
			expected: 3 * time.Second,
		},
		{
			name:     "GetWriteTimeout",
			method:   config.Redis.GetWriteTimeout,
			expected: 5 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.method()
			if result != tt.expected {
				t.Errorf("%s() = %v, want %v", tt.name, result, tt.expected)
			}
		})
	}
}

func TestConfig_PartialDefaults(t *testing.T) {
	config := &Config{
		Worker: WorkerConfig{
			CacheGeneration: "lotto-oracle-v5", // Custom value
			// PrecacheURLs and IgnorePatterns should get defaults
		},
		Memory: MemoryConfig{
			SizeMB: 256, // Custom value
		},
	}

	config.applyDefaults()

	// Custom values should be preserved
	if config.Worker.CacheGeneration != "lotto-oracle-v5" {
		t.Errorf("applyDefaults() should preserve custom Worker.CacheGeneration = %v", config.Worker.CacheGeneration)
	}
	if config.Memory.SizeMB != 256 {
		t.Errorf("applyDefaults() should preserve custom Memory.SizeMB = %v", config.Memory.SizeMB)
	}

	// Missing values should get defaults
	if len(config.Worker.PrecacheURLs) != 5 {
		t.Errorf("applyDefaults() Worker.PrecacheURLs length = %v, want 5 (default)", len(config.Worker.PrecacheURLs))
	}
	if len(config.Worker.IgnorePatterns) != 5 {
		t.Errorf("applyDefaults() Worker.IgnorePatterns length = %v, want 5 (default)", len(config.Worker.IgnorePatterns))
	}
	if config.Redis.ReadTimeoutSeconds != 2 {
		t.Errorf("applyDefaults() Redis.ReadTimeoutSeconds = %v, want 2 (default)", config.Redis.ReadTimeoutSeconds)
	}
}
