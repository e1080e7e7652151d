package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/farekit/transit-service/internal/config"
	"github.com/farekit/transit-service/internal/events"
)

// NotificationService turns domain events into audit log entries and webhook
// notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserCreated, n.handleEvent)
	n.dispatcher.Subscribe(events.EventCardCreated, n.handleEvent)
	n.dispatcher.Subscribe(events.EventCardStatusChanged, n.handleEvent)
	n.dispatcher.Subscribe(events.EventCardRemoved, n.handleEvent)
}

func (n *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("owner_id", event.OwnerID),
		zap.String("actor", event.Actor.Subject),
		zap.Bool("internal", event.Actor.Internal),
		zap.Any("payload", event.Payload),
	)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
