package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"nexus-backend/internal/models"
)

const publishTimeout = 2 * time.Second

// SessionChannel is the pub/sub channel carrying a session's events.
func SessionChannel(sessionID uuid.UUID) string {
	return fmt.Sprintf("session_updates:%s", sessionID.String())
}

// EventPublisher sends session events to WebSocket subscribers via Redis
// pub/sub.
type EventPublisher struct {
	redis *redis.Client
}

var _ Notifier = (*EventPublisher)(nil)

func NewEventPublisher(redisClient *redis.Client) *EventPublisher {
	return &EventPublisher{redis: redisClient}
}

// Notify publishes a session event. Failures are logged and dropped.
func (p *EventPublisher) Notify(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage) {
	data, err := encodeEvent(msg)
	if err != nil {
		log.WithError(err).Warn("failed to encode session event")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.redis.Publish(ctx, SessionChannel(sessionID), data).Err(); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"session_id": sessionID,
			"event":      msg.Type,
		}).Warn("failed to publish session event")
	}
}

func encodeEvent(msg models.WSMessage) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", msg.Type, err)
	}
	return data, nil
}
