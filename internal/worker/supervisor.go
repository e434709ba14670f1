package worker

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Supervisor owns the worker versions: one active, at most one waiting.
// Swapping the active pointer is the "claim clients" step — the moment it
// happens, every new request is handled by the new version's logic.
type Supervisor struct {
	mu      sync.Mutex
	active  atomic.Pointer[Worker]
	waiting *Worker
	logger  *zap.Logger
}

// NewSupervisor creates an empty supervisor
func NewSupervisor(logger *zap.Logger) *Supervisor {
	return &Supervisor{logger: logger}
}

// Stage installs a new worker version. With no active worker it activates
// immediately; otherwise the version parks in the waiting state until a
// skip-waiting signal promotes it.
func (s *Supervisor) Stage(ctx context.Context, wk *Worker) error {
	if err := wk.Install(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active.Load() == nil {
		return s.promoteLocked(ctx, wk)
	}

	s.waiting = wk
	s.logger.Info("Worker version staged, waiting for activation",
		zap.String("generation", wk.Generation()))
	return nil
}

// SkipWaiting promotes the waiting worker immediately. With nothing waiting
// it is a no-op, matching the message channel's silently-ignore contract.
func (s *Supervisor) SkipWaiting(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.waiting == nil {
		return nil
	}
	wk := s.waiting
	s.waiting = nil
	return s.promoteLocked(ctx, wk)
}

func (s *Supervisor) promoteLocked(ctx context.Context, wk *Worker) error {
	if err := wk.beginActivation(); err != nil {
		return err
	}

	// Claim traffic before purging so the outgoing version never serves
	// against a store being removed under it.
	old := s.active.Swap(wk)
	if old != nil {
		old.setState(StateRedundant)
		go old.Drain()
	}

	wk.finishActivation(ctx)
	return nil
}

// Active returns the worker currently claiming traffic, or nil.
func (s *Supervisor) Active() *Worker {
	return s.active.Load()
}

// Waiting returns the staged worker, or nil.
func (s *Supervisor) Waiting() *Worker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting
}

// ServeHTTP routes every intercepted request through the active worker.
func (s *Supervisor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wk := s.active.Load()
	if wk == nil {
		http.Error(w, "worker not ready", http.StatusServiceUnavailable)
		return
	}
	wk.ServeHTTP(w, r)
}

// Shutdown waits for pending detached writes on all held versions.
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	waiting := s.waiting
	s.mu.Unlock()

	if wk := s.active.Load(); wk != nil {
		wk.Drain()
	}
	if waiting != nil {
		waiting.Drain()
	}
}
