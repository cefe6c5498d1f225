package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"socialite/pkg/logger"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the specified stream.
	// Returns the message ID assigned by Redis.
	Publish(ctx context.Context, stream string, event NotificationEvent) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
	log    *logger.Logger
}

// NewPublisher creates a new Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client, log *logger.Logger) Publisher {
	return &RedisPublisher{client: client, log: log}
}

// Publish adds an event to the stream using XADD.
// Uses "*" for auto-generated message ID (timestamp-sequence).
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event NotificationEvent) (string, error) {
	values, err := event.ToMap()
	if err != nil {
		p.log.WithError(err).WithField("stream", stream).Error("Failed to serialize event")
		return "", fmt.Errorf("serialize event: %w", err)
	}

	// XADD stream * field value [field value ...]
	// "*" means Redis auto-generates the message ID
	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()

	if err != nil {
		p.log.WithError(err).WithField("stream", stream).Error("Failed to publish event")
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	p.log.WithFields(map[string]interface{}{
		"stream":       stream,
		"type":         event.Type,
		"msg_id":       messageID,
		"notification": event.NotificationID,
		"receiver":     event.Receiver,
	}).Info("Published event")

	return messageID, nil
}
