package httpserver

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// skipWaitingMessage is the only recognized inbound message type.
const skipWaitingMessage = "SKIP_WAITING"

// handleMessage handles the worker message channel. Unrecognized or
// malformed messages are silently ignored with 204.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := s.parseRequest(r, &req); err != nil || req.Type != skipWaitingMessage {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := s.supervisor.SkipWaiting(r.Context()); err != nil {
		s.logger.Error("Skip-waiting activation failed", zap.Error(err))
		s.writeErrorResponse(w, "activation failed", http.StatusInternalServerError)
		return
	}

	state := ""
	if wk := s.supervisor.Active(); wk != nil {
		state = string(wk.State())
	}
	s.writeResponse(w, &MessageResponse{Success: true, State: state})
}

// handlePush handles a pushed payload. Malformed payloads produce no
// notification and no error (204).
func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	defer r.Body.Close()

	n := s.center.HandlePush(body)
	if n == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	s.writeResponse(w, n)
}

// handleNotifications lists active notifications.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, &NotificationsResponse{Notifications: s.center.Active()})
}

// handleNotificationClick closes a notification and, for the explore action,
// returns the URL the client should open.
func (s *Server) handleNotificationClick(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req ClickRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}

	openURL, ok := s.center.Click(id, req.Action)
	if !ok {
		s.writeErrorResponse(w, "Unknown notification", http.StatusNotFound)
		return
	}

	s.writeResponse(w, &ClickResponse{Success: true, OpenURL: openURL})
}
