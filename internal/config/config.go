package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// WorkerConfig is the immutable configuration handed to a worker version at
// construction. A new worker version gets a new value; nothing mutates it
// after load.
type WorkerConfig struct {
	CacheGeneration    string   `yaml:"cache_generation" validate:"required"`
	PrecacheURLs       []string `yaml:"precache_urls" validate:"min=1"`
	IgnorePatterns     []string `yaml:"ignore_patterns"`
	OfflineFallbackURL string   `yaml:"offline_fallback_url" validate:"required"`
}

// MemoryConfig configures the in-memory (BigCache) store backend.
type MemoryConfig struct {
	Enabled bool `yaml:"enabled"`
	SizeMB  int  `yaml:"size_mb"`
}

// RedisConfig configures the shared Redis store backend.
type RedisConfig struct {
	Enabled             bool `yaml:"enabled"`
	ReadTimeoutSeconds  int  `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int  `yaml:"write_timeout_seconds"`
}

// GetReadTimeout returns the Redis read timeout as a duration.
func (r *RedisConfig) GetReadTimeout() time.Duration {
	return time.Duration(r.ReadTimeoutSeconds) * time.Second
}

// GetWriteTimeout returns the Redis write timeout as a duration.
func (r *RedisConfig) GetWriteTimeout() time.Duration {
	return time.Duration(r.WriteTimeoutSeconds) * time.Second
}

// Config represents the main configuration structure
type Config struct {
	ListenAddr string       `yaml:"listen_addr"`
	Origin     string       `yaml:"origin" validate:"required,url"`
	Worker     WorkerConfig `yaml:"worker"`
	Memory     MemoryConfig `yaml:"memory"`
	Redis      RedisConfig  `yaml:"redis"`
}

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate checks the loaded configuration against struct tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.Worker.CacheGeneration == "" {
		c.Worker.CacheGeneration = "lotto-oracle-v3.0.0"
	}
	if len(c.Worker.PrecacheURLs) == 0 {
		c.Worker.PrecacheURLs = []string{
			"/",
			"/offline.html",
			"/manifest.json",
			"/icon-192x192.png",
			"/icon-512x512.png",
		}
	}
	if len(c.Worker.IgnorePatterns) == 0 {
		c.Worker.IgnorePatterns = []string{
			"chrome-extension",
			"devtools",
			"localhost",
			"127.0.0.1",
			"__",
		}
	}
	if c.Worker.OfflineFallbackURL == "" {
		c.Worker.OfflineFallbackURL = "/offline.html"
	}
	if c.Memory.SizeMB == 0 {
		c.Memory.SizeMB = 64
	}
	if c.Redis.ReadTimeoutSeconds == 0 {
		c.Redis.ReadTimeoutSeconds = 2
	}
	if c.Redis.WriteTimeoutSeconds == 0 {
		c.Redis.WriteTimeoutSeconds = 2
	}
}
