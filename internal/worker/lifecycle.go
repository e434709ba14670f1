package worker

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"go-offline-gateway/internal/cachestore"
	"go-offline-gateway/internal/interfaces"
	"go-offline-gateway/internal/metrics"
)

// Install opens the current-generation store and precaches the app shell.
// Install is atomic: any failing fetch or write fails the whole step, the
// partially populated generation is dropped, and the previous generation
// stays in place.
func (wk *Worker) Install(ctx context.Context) error {
	wk.setState(StateInstalling)

	store, err := wk.storage.Open(wk.cfg.CacheGeneration)
	if err != nil {
		wk.setState(StateRedundant)
		return fmt.Errorf("failed to open generation store: %w", err)
	}

	for _, u := range wk.cfg.PrecacheURLs {
		if err := wk.precache(ctx, store, u); err != nil {
			metrics.RecordPrecache("error")
			wk.setState(StateRedundant)
			if rmErr := wk.storage.Remove(wk.cfg.CacheGeneration); rmErr != nil {
				wk.logger.Warn("Failed to drop partial generation after install failure",
					zap.String("generation", wk.cfg.CacheGeneration), zap.Error(rmErr))
			}
			return fmt.Errorf("precache of %s failed: %w", u, err)
		}
		metrics.RecordPrecache("ok")
	}

	wk.store = store
	wk.setState(StateInstalled)
	wk.logger.Info("Worker installed",
		zap.String("generation", wk.cfg.CacheGeneration),
		zap.Int("precached", len(wk.cfg.PrecacheURLs)))
	return nil
}

// precache fetches one shell URL and stores it. Anything but a 200 fails the
// install; a half-precached generation must never be promoted.
func (wk *Worker) precache(ctx context.Context, store interfaces.Store, u string) error {
	result, err := wk.fetcher.Fetch(ctx, http.MethodGet, u, nil, nil)
	if err != nil {
		return err
	}
	if result.Response.Status != http.StatusOK {
		return fmt.Errorf("unexpected status %d", result.Response.Status)
	}
	return store.Put(cachestore.KeyFor(http.MethodGet, u), result.Response)
}

// Activate purges every generation other than the worker's own, then marks
// the worker active so it can claim traffic. Purge failures are isolated per
// generation: one failing removal blocks neither the others nor activation.
func (wk *Worker) Activate(ctx context.Context) error {
	if err := wk.beginActivation(); err != nil {
		return err
	}
	wk.finishActivation(ctx)
	return nil
}

// beginActivation verifies install completed and enters the activating state.
func (wk *Worker) beginActivation() error {
	if wk.store == nil {
		return fmt.Errorf("worker %s is not installed", wk.cfg.CacheGeneration)
	}
	wk.setState(StateActivating)
	return nil
}

// finishActivation purges stale generations and marks the worker active. It
// must run only after the previous version has stopped serving; removals here
// pull stores out from under whoever still holds them.
func (wk *Worker) finishActivation(ctx context.Context) {
	names, err := wk.storage.Names()
	if err != nil {
		wk.logger.Warn("Failed to enumerate generations, skipping purge", zap.Error(err))
	}

	for _, name := range names {
		if name == wk.cfg.CacheGeneration {
			continue
		}
		if err := wk.storage.Remove(name); err != nil {
			wk.logger.Warn("Failed to remove stale generation",
				zap.String("generation", name), zap.Error(err))
			continue
		}
		metrics.RecordGenerationPurged()
		wk.logger.Info("Removed stale generation", zap.String("generation", name))
	}

	wk.setState(StateActive)
	wk.logger.Info("Worker active", zap.String("generation", wk.cfg.CacheGeneration))
}
