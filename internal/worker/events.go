// Package worker consumes profile events: it keeps the search index in step
// with the profiles table and sends welcome emails for new accounts.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/noxven/gestion-ie/internal/application"
	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/pkg/mailer"
)

// ErrMalformed marks messages that can never succeed and must not be requeued.
var ErrMalformed = errors.New("malformed event")

type Indexer interface {
	Index(ctx context.Context, p entity.Profile) error
}

type Handler struct {
	Indexer     Indexer
	Mailer      mailer.Sender
	MailEnabled bool
	AppName     string
	Logger      logrus.FieldLogger
}

// Handle processes one event body. msgType is the AMQP type property and
// wins over the type inside the payload when both are set.
func (h *Handler) Handle(ctx context.Context, msgType string, body []byte) error {
	var ev application.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if msgType != "" {
		ev.Type = msgType
	}
	if ev.Profile.ID <= 0 || ev.Profile.Email == "" {
		return fmt.Errorf("%w: profile id and email are required", ErrMalformed)
	}

	switch ev.Type {
	case application.EventProfileCreated, application.EventProfileUpdated:
		return h.index(ctx, ev.Profile)
	case application.EventAccountRegistered:
		if err := h.index(ctx, ev.Profile); err != nil {
			return err
		}
		return h.welcome(ctx, ev.Profile)
	default:
		return fmt.Errorf("%w: unknown type %q", ErrMalformed, ev.Type)
	}
}

func (h *Handler) index(ctx context.Context, p entity.Profile) error {
	if h.Indexer == nil {
		return nil
	}
	if err := h.Indexer.Index(ctx, p); err != nil {
		return fmt.Errorf("index profile: %w", err)
	}
	return nil
}

func (h *Handler) welcome(ctx context.Context, p entity.Profile) error {
	if !h.MailEnabled || h.Mailer == nil {
		return nil
	}
	subject, text, html, err := mailer.RenderWelcome(mailer.WelcomeData{
		AppName:  h.AppName,
		FullName: p.FullName,
		Email:    p.Email,
		Role:     p.Role,
	})
	if err != nil {
		return fmt.Errorf("%w: render welcome: %v", ErrMalformed, err)
	}
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := h.Mailer.Send(c, p.Email, subject, text, html); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}
	return nil
}

// Run drains deliveries until ctx is done or the channel closes. Malformed
// messages are dropped; other failures are requeued.
func (h *Handler) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-deliveries:
			if !ok {
				return
			}
			h.process(ctx, msg)
		}
	}
}

func (h *Handler) process(ctx context.Context, msg amqp.Delivery) {
	logger := h.log().WithFields(logrus.Fields{"message_id": msg.MessageId, "type": msg.Type})
	err := h.Handle(ctx, msg.Type, msg.Body)
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, ErrMalformed):
		logger.WithError(err).Warn("dropping event")
		_ = msg.Nack(false, false)
	default:
		logger.WithError(err).Error("event failed, requeueing")
		_ = msg.Nack(false, !msg.Redelivered)
	}
}

func (h *Handler) log() logrus.FieldLogger {
	if h.Logger == nil {
		return logrus.StandardLogger()
	}
	return h.Logger
}
