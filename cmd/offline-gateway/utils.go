package main

import (
	"os"
	"strings"

	"go.uber.org/zap"
)

const defaultRedisURL = "redis://redis:6379"

// GetRedisURL returns the Redis URL with the following priority:
// 1. REDIS_URL environment variable
// 2. GATEWAY_REDIS_URL_FILE file content
// 3. Default value
func GetRedisURL(e *Env, logger *zap.Logger) string {
	// Priority 1: Environment variable
	if e.RedisURL != "" {
		logger.Debug("Using Redis URL from environment variable")
		return e.RedisURL
	}

	// Priority 2: Configurable connection file path
	if content, err := os.ReadFile(e.RedisURLFile); err == nil {
		redisURL := strings.TrimSpace(string(content))
		if len(redisURL) > 0 {
			logger.Debug("Using Redis URL from connection file", zap.String("file", e.RedisURLFile))
			return redisURL
		}
	} else {
		logger.Debug("Redis connection file not found or empty", zap.String("file", e.RedisURLFile))
	}

	// Priority 3: Default
	logger.Debug("Using default Redis URL")
	return defaultRedisURL
}
