package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/config"
	"github.com/spec-kit/support-agent/internal/events"
)

// NotificationService handles emitting notifications for ticket lifecycle events.
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
	n.dispatcher.Subscribe(events.EventTicketReceived, n.handleTicketReceived)
	n.dispatcher.Subscribe(events.EventTicketProcessing, n.handleTicketProcessing)
	n.dispatcher.Subscribe(events.EventTicketResolved, n.handleTicketResolved)
	n.dispatcher.Subscribe(events.EventTicketFailed, n.handleTicketFailed)
}

func (n *NotificationService) handleTicketReceived(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketReceived", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketProcessing(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketProcessing", zap.String("ticket_id", event.TicketID))
	return nil
}

func (n *NotificationService) handleTicketResolved(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketResolved", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketFailed(ctx context.Context, event events.Event) error {
	n.logger.Warn("TicketFailed", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
