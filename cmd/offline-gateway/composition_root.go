package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	"go-offline-gateway/internal/cachestore/memory"
	"go-offline-gateway/internal/cachestore/noop"
	"go-offline-gateway/internal/cachestore/redisstore"
	"go-offline-gateway/internal/cachestore/tiered"
	"go-offline-gateway/internal/config"
	"go-offline-gateway/internal/httpserver"
	"go-offline-gateway/internal/interfaces"
	"go-offline-gateway/internal/push"
	"go-offline-gateway/internal/upstream"
	"go-offline-gateway/internal/worker"
)

// Env holds the process-level settings read from environment variables.
type Env struct {
	ConfigFile   string `env:"GATEWAY_CONFIG_FILE" envDefault:"/app/gateway_config.yaml"`
	ListenAddr   string `env:"GATEWAY_LISTEN_ADDR"`
	SocketPath   string `env:"GATEWAY_SOCKET_PATH" envDefault:"/tmp/gateway.sock"`
	RedisURL     string `env:"REDIS_URL"`
	RedisURLFile string `env:"GATEWAY_REDIS_URL_FILE" envDefault:"/app/.redis-url"`
}

// CompositionRoot holds all application dependencies and provides a centralized
// place for dependency injection and service initialization.
type CompositionRoot struct {
	Env    Env
	Config *config.Config
	Logger *zap.Logger

	// Cache backends
	Storage interfaces.Storage

	// Services
	Fetcher    interfaces.Fetcher
	Supervisor *worker.Supervisor
	PushCenter *push.Center
	HTTPServer *httpserver.Server
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Environment and configuration
// 3. Cache storage backends (memory, Redis, or both tiered)
// 4. Upstream fetcher and worker supervisor
// 5. HTTP server (uses all above components)
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := root.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache storage: %w", err)
	}

	if err := root.initUpstream(); err != nil {
		return nil, fmt.Errorf("failed to initialize upstream client: %w", err)
	}

	root.initWorker()
	root.initHTTPServer()

	return root, nil
}

// initLogger initializes the application logger
func (r *CompositionRoot) initLogger() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

// loadConfig parses the environment and loads the YAML configuration
func (r *CompositionRoot) loadConfig() error {
	if err := env.Parse(&r.Env); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	cfg, err := config.LoadConfig(r.Env.ConfigFile, r.Logger)
	if err != nil {
		return err
	}

	if r.Env.ListenAddr != "" {
		cfg.ListenAddr = r.Env.ListenAddr
	}

	r.Config = cfg
	return nil
}

// initStorage wires the enabled cache backends. Both enabled means a tiered
// storage with memory in front of Redis; neither means a no-op storage, so the
// gateway degrades to a plain proxy instead of refusing to start.
func (r *CompositionRoot) initStorage() error {
	var layers []interfaces.Storage

	if r.Config.Memory.Enabled {
		layers = append(layers, memory.NewStorage(r.Config.Memory.SizeMB, r.Logger))
		r.Logger.Info("Memory store initialized", zap.Int("size_mb", r.Config.Memory.SizeMB))
	} else {
		r.Logger.Info("Memory store disabled")
	}

	if r.Config.Redis.Enabled {
		redisURL := GetRedisURL(&r.Env, r.Logger)

		client, err := redisstore.NewClient(&r.Config.Redis, redisURL, r.Logger)
		if err != nil {
			r.Logger.Warn("Failed to connect to Redis, continuing without shared store",
				zap.String("redis_url", redisURL),
				zap.Error(err))
		} else {
			layers = append(layers, redisstore.NewStorage(&r.Config.Redis, client, r.Logger))
			r.Logger.Info("Redis store initialized", zap.String("redis_url", redisURL))
		}
	} else {
		r.Logger.Info("Redis store disabled")
	}

	switch len(layers) {
	case 0:
		r.Storage = noop.NewStorage()
		r.Logger.Warn("No cache backend enabled, responses will not be cached")
	case 1:
		r.Storage = layers[0]
	default:
		r.Storage = tiered.NewStorage(layers, r.Logger)
	}
	return nil
}

// initUpstream initializes the HTTP client for the application origin
func (r *CompositionRoot) initUpstream() error {
	client, err := upstream.NewClient(r.Config.Origin, r.Logger)
	if err != nil {
		return err
	}
	r.Fetcher = client
	return nil
}

// initWorker initializes the worker supervisor and notification center
func (r *CompositionRoot) initWorker() {
	r.Supervisor = worker.NewSupervisor(r.Logger)
	r.PushCenter = push.NewCenter(NewLogSink(r.Logger), r.Logger)
}

// initHTTPServer initializes the HTTP server
func (r *CompositionRoot) initHTTPServer() {
	r.HTTPServer = httpserver.NewServer(r.Supervisor, r.PushCenter, r.Logger)
}

// NewWorker builds a worker version from the currently loaded configuration.
func (r *CompositionRoot) NewWorker() *worker.Worker {
	return worker.New(r.Config.Worker, r.Storage, r.Fetcher, r.Logger)
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	var errors []error

	if r.Logger != nil {
		if err := r.Logger.Sync(); err != nil {
			errors = append(errors, fmt.Errorf("failed to sync logger: %w", err))
		}
	}

	// Closing the storage also closes the Redis client behind it.
	if r.Storage != nil {
		if err := r.Storage.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close cache storage: %w", err))
		}
	}

	if len(errors) > 0 {
		return errors[0]
	}
	return nil
}
