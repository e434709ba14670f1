package interfaces

import (
	"go-offline-gateway/internal/models"
)

// Sink receives notifications dispatched by the push handler.
type Sink interface {
	Deliver(n *models.Notification)
}
