package main

import (
	"go.uber.org/zap"

	"go-offline-gateway/internal/interfaces"
	"go-offline-gateway/internal/models"
)

// LogSink adapts zap.Logger to the interfaces.Sink notification delivery
// interface. The gateway has no display surface of its own, so delivery means
// emitting a structured log record the platform can ship onward.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a new LogSink adapter
func NewLogSink(logger *zap.Logger) interfaces.Sink {
	return &LogSink{logger: logger}
}

// Deliver emits the notification as a structured log record
func (s *LogSink) Deliver(n *models.Notification) {
	s.logger.Info("Notification displayed",
		zap.String("id", n.ID),
		zap.String("title", n.Title),
		zap.String("body", n.Body),
		zap.String("icon", n.Icon),
	)
}
