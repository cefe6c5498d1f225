package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the notification stream
const (
	EventNotificationCreated = "notification_created"
)

// Stream names
const (
	StreamNotifications = "stream:notifications"
)

// Consumer group name for delivery workers
const (
	ConsumerGroupNotifications = "notif_workers"
)

// NotificationEvent is published after a notification record has been stored.
// The in-memory record is the source of truth; the event only drives external
// delivery, so a consumer seeing it late is fine, seeing it without the
// record is not.
type NotificationEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	NotificationID uint64 `json:"notification_id"`
	Sender         string `json:"sender"`
	Receiver       string `json:"receiver"`
	Kind           string `json:"kind"`
	Message        string `json:"message"`
}

// NewNotificationCreatedEvent builds the event for a freshly stored record.
func NewNotificationCreatedEvent(id uint64, sender, receiver, kind, message string) NotificationEvent {
	return NotificationEvent{
		Type:           EventNotificationCreated,
		Timestamp:      time.Now().Unix(),
		NotificationID: id,
		Sender:         sender,
		Receiver:       receiver,
		Kind:           kind,
		Message:        message,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e NotificationEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseNotificationEvent parses an event from Redis stream message values.
func ParseNotificationEvent(values map[string]interface{}) (NotificationEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return NotificationEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event NotificationEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return NotificationEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
