package push

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-offline-gateway/internal/interfaces"
	"go-offline-gateway/internal/models"
)

const (
	notificationIcon  = "/icon-192x192.png"
	notificationBadge = "/icon-192x192.png"

	// ActionExplore opens the application root.
	ActionExplore = "explore"
	// ActionClose dismisses the notification.
	ActionClose = "close"

	appRootURL = "/"
)

var vibrationPattern = []int{100, 50, 100}

// Payload is the producer-defined push message shape.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Center turns push payloads into notifications and tracks them until they
// are clicked away. Malformed payloads are silently dropped.
type Center struct {
	mu            sync.Mutex
	notifications map[string]*models.Notification
	sink          interfaces.Sink
	logger        *zap.Logger
}

// NewCenter creates a notification center delivering through sink
func NewCenter(sink interfaces.Sink, logger *zap.Logger) *Center {
	return &Center{
		notifications: make(map[string]*models.Notification),
		sink:          sink,
		logger:        logger,
	}
}

// HandlePush processes one push event. It returns the displayed notification,
// or nil when the payload is malformed or empty (a silent no-op).
func (c *Center) HandlePush(data []byte) *models.Notification {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.logger.Debug("Dropping malformed push payload", zap.Error(err))
		return nil
	}
	if payload.Title == "" || payload.Body == "" {
		c.logger.Debug("Dropping push payload without title or body")
		return nil
	}

	n := &models.Notification{
		ID:        uuid.NewString(),
		Title:     payload.Title,
		Body:      payload.Body,
		Icon:      notificationIcon,
		Badge:     notificationBadge,
		Vibration: vibrationPattern,
		Actions: []models.NotificationAction{
			{Action: ActionExplore, Title: "Open App"},
			{Action: ActionClose, Title: "Dismiss"},
		},
		CreatedAt: time.Now().Unix(),
	}

	c.mu.Lock()
	c.notifications[n.ID] = n
	c.mu.Unlock()

	c.sink.Deliver(n)

	return n
}

// Click handles a notification click. The notification is always closed; the
// explore action additionally yields the app root URL to open. The second
// return is false for an unknown notification ID.
func (c *Center) Click(id, action string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.notifications[id]; !ok {
		return "", false
	}
	delete(c.notifications, id)

	if action == ActionExplore {
		return appRootURL, true
	}
	return "", true
}

// Active lists notifications that have not been clicked away.
func (c *Center) Active() []*models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*models.Notification, 0, len(c.notifications))
	for _, n := range c.notifications {
		out = append(out, n)
	}
	return out
}
