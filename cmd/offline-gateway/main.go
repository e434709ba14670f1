package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"go-offline-gateway/internal/config"
)

func main() {
	// Initialize composition root with all dependencies
	root, err := NewCompositionRoot()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	// Ensure cleanup on exit
	defer func() {
		if err := root.Cleanup(); err != nil {
			root.Logger.Error("Failed to cleanup resources", zap.Error(err))
		}
	}()

	// Install and activate the initial worker version before serving traffic
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := root.Supervisor.Stage(ctx, root.NewWorker()); err != nil {
		cancel()
		root.Logger.Error("Failed to install initial worker version", zap.Error(err))
		os.Exit(1)
	}
	cancel()

	// Start server on TCP or Unix socket depending on configuration
	go func() {
		var err error
		if root.Config.ListenAddr != "" {
			err = root.HTTPServer.Start(root.Config.ListenAddr)
		} else {
			err = root.HTTPServer.StartUnixSocket(root.Env.SocketPath)
		}
		if err != nil {
			root.Logger.Error("Server failed to start", zap.Error(err))
		}
	}()

	// SIGHUP stages a new worker version from the reloaded configuration and
	// activates it immediately; SIGINT/SIGTERM shut down gracefully.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range quit {
		if sig != syscall.SIGHUP {
			break
		}
		if err := stageNewVersion(root); err != nil {
			root.Logger.Error("Worker version update failed, keeping current version", zap.Error(err))
		}
	}

	root.Logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := root.HTTPServer.Stop(shutdownCtx); err != nil {
		root.Logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	// Wait for detached cache writes before closing the stores
	root.Supervisor.Shutdown()

	root.Logger.Info("Server exited")
}

// stageNewVersion reloads the configuration, installs a worker version for the
// new cache generation, and promotes it. The running version keeps serving
// until the new one has fully precached.
func stageNewVersion(root *CompositionRoot) error {
	cfg, err := config.LoadConfig(root.Env.ConfigFile, root.Logger)
	if err != nil {
		return fmt.Errorf("reload configuration: %w", err)
	}
	root.Config = cfg

	root.Logger.Info("Staging new worker version",
		zap.String("generation", cfg.Worker.CacheGeneration))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := root.Supervisor.Stage(ctx, root.NewWorker()); err != nil {
		return fmt.Errorf("stage worker: %w", err)
	}
	return root.Supervisor.SkipWaiting(ctx)
}
