package worker

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"go-offline-gateway/internal/config"
	"go-offline-gateway/internal/interfaces"
	"go-offline-gateway/internal/routing"
)

// State is a worker version's position in its lifecycle.
type State string

const (
	// StateInstalling covers precaching of the app shell.
	StateInstalling State = "installing"
	// StateInstalled means precache succeeded; the version is waiting to take over.
	StateInstalled State = "installed"
	// StateActivating covers stale-generation cleanup.
	StateActivating State = "activating"
	// StateActive means the version is serving intercepted requests.
	StateActive State = "active"
	// StateRedundant means the version failed to install or was replaced.
	StateRedundant State = "redundant"
)

// Worker is one immutable version of the interception logic: a configuration,
// a cache generation, and the fetch strategies that run against them.
type Worker struct {
	cfg        config.WorkerConfig
	storage    interfaces.Storage
	fetcher    interfaces.Fetcher
	classifier *routing.Classifier
	logger     *zap.Logger

	store interfaces.Store // current generation, set by Install

	state atomic.Value
	tasks sync.WaitGroup // detached cache writes in flight
}

// New creates a worker version. It holds no resources until Install runs.
func New(cfg config.WorkerConfig, storage interfaces.Storage, fetcher interfaces.Fetcher, logger *zap.Logger) *Worker {
	wk := &Worker{
		cfg:        cfg,
		storage:    storage,
		fetcher:    fetcher,
		classifier: routing.NewClassifier(cfg, logger),
		logger:     logger,
	}
	wk.state.Store(StateInstalling)
	return wk
}

// State returns the worker's lifecycle state.
func (wk *Worker) State() State {
	return wk.state.Load().(State)
}

// Generation returns the cache generation this version owns.
func (wk *Worker) Generation() string {
	return wk.cfg.CacheGeneration
}

// Drain blocks until all pending detached cache writes settle.
func (wk *Worker) Drain() {
	wk.tasks.Wait()
}

func (wk *Worker) setState(s State) {
	wk.state.Store(s)
}
