package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/noxven/gestion-ie/internal/domain/entity"
)

// Event types carried on the events queue.
const (
	EventProfileCreated    = "profile.created"
	EventProfileUpdated    = "profile.updated"
	EventAccountRegistered = "account.registered"
)

// Event is the payload published after a profile changes.
type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Profile    entity.Profile `json:"profile"`
}

// publishEvent never fails the caller; the database write already committed.
func publishEvent(ctx context.Context, pub EventPublisher, logger logrus.FieldLogger, eventType string, p *entity.Profile) {
	if pub == nil || p == nil {
		return
	}
	ev := Event{Type: eventType, OccurredAt: time.Now().UTC(), Profile: *p}
	if err := pub.PublishJSON(ctx, eventType, ev); err != nil && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"op":         "publish_event",
			"event":      eventType,
			"profile_id": p.ID,
		}).Warn("publish event failed")
	}
}
