package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-offline-gateway/internal/push"
	"go-offline-gateway/internal/worker"
)

// Server fronts the application origin: the control plane lives under
// /__worker/ (inside the ignore set, so it is never cache-intercepted) and
// everything else is routed through the active worker.
type Server struct {
	supervisor *worker.Supervisor
	center     *push.Center
	logger     *zap.Logger
	server     *http.Server
}

// NewServer creates the gateway HTTP server
func NewServer(supervisor *worker.Supervisor, center *push.Center, logger *zap.Logger) *Server {
	return &Server{
		supervisor: supervisor,
		center:     center,
		logger:     logger,
	}
}

// Start starts the HTTP server on a TCP address
func (s *Server) Start(addr string) error {
	router := s.createRouter()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting gateway HTTP server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// StartUnixSocket starts the HTTP server on a Unix socket
func (s *Server) StartUnixSocket(socketPath string) error {
	// Remove existing socket file
	if err := os.RemoveAll(socketPath); err != nil {
		s.logger.Warn("Failed to remove existing socket file", zap.String("path", socketPath), zap.Error(err))
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return err
	}

	if err := os.Chmod(socketPath, 0660); err != nil {
		s.logger.Warn("Failed to set socket permissions", zap.String("path", socketPath), zap.Error(err))
	}

	router := s.createRouter()

	s.server = &http.Server{
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting gateway HTTP server on Unix socket", zap.String("socket_path", socketPath))
	return s.server.Serve(listener)
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping gateway HTTP server")
	return s.server.Shutdown(ctx)
}

// createRouter creates and configures the HTTP router
func (s *Server) createRouter() *mux.Router {
	router := mux.NewRouter()

	// Worker control plane (double-underscore prefix keeps it out of the
	// interception path)
	router.HandleFunc("/__worker/message", s.handleMessage).Methods("POST")
	router.HandleFunc("/__worker/push", s.handlePush).Methods("POST")
	router.HandleFunc("/__worker/notifications", s.handleNotifications).Methods("GET")
	router.HandleFunc("/__worker/notifications/{id}/click", s.handleNotificationClick).Methods("POST")
	router.HandleFunc("/__worker/health", s.handleHealth).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Everything else goes through the active worker
	router.PathPrefix("/").Handler(s.supervisor)

	return router
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := "none"
	generation := ""
	if wk := s.supervisor.Active(); wk != nil {
		state = string(wk.State())
		generation = wk.Generation()
	}
	s.writeResponse(w, map[string]interface{}{
		"status":     "healthy",
		"worker":     state,
		"generation": generation,
		"time":       time.Now().UTC(),
	})
}

// parseRequest parses JSON request body
func (s *Server) parseRequest(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	defer r.Body.Close()

	return json.Unmarshal(body, v)
}

// writeResponse writes JSON response
func (s *Server) writeResponse(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeErrorResponse writes error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := map[string]interface{}{
		"success": false,
		"error":   message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("Failed to write error response", zap.Error(err))
	}
}
