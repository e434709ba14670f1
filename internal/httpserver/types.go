package httpserver

import "go-offline-gateway/internal/models"

// MessageRequest is the inbound worker message contract. SKIP_WAITING is the
// only recognized type; everything else is silently ignored.
type MessageRequest struct {
	Type string `json:"type"`
}

// ClickRequest carries the action chosen on a notification.
type ClickRequest struct {
	Action string `json:"action"`
}

// MessageResponse acknowledges a recognized worker message.
type MessageResponse struct {
	Success bool   `json:"success"`
	State   string `json:"state,omitempty"`
}

// ClickResponse reports the outcome of a notification click.
type ClickResponse struct {
	Success bool   `json:"success"`
	OpenURL string `json:"open_url,omitempty"`
}

// NotificationsResponse lists notifications not yet clicked away.
type NotificationsResponse struct {
	Notifications []*models.Notification `json:"notifications"`
}
