package models

// NotificationAction is a button attached to a notification.
type NotificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Notification is an OS-level notification built from a push payload.
type Notification struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Body      string               `json:"body"`
	Icon      string               `json:"icon"`
	Badge     string               `json:"badge"`
	Vibration []int                `json:"vibration"`
	Actions   []NotificationAction `json:"actions"`
	CreatedAt int64                `json:"created_at"`
}
