package models

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

type Notification struct {
	ID         string           `json:"id"`
	Type       NotificationType `json:"type"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	DurationMs int64            `json:"duration_ms"`
}

// NotificationInput is what callers hand to the queue. ID is optional.
type NotificationInput struct {
	ID         string
	Type       NotificationType
	Title      string
	Message    string
	DurationMs int64
}
