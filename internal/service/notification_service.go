package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/helpdeskhq/helpdesk-service/internal/events"
	"github.com/helpdeskhq/helpdesk-service/internal/notify"
)

// NotificationService forwards domain events to the Discord notifier.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   *notify.DiscordNotifier
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifier *notify.DiscordNotifier, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, notifier: notifier, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketMessageAdded, n.handleMessageAdded)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		n.logger.Warn("unexpected payload", zap.String("event", string(event.Type)))
		return
	}
	n.notifier.NotifyNewUser(ctx, payload.User)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		n.logger.Warn("unexpected payload", zap.String("event", string(event.Type)))
		return
	}
	n.notifier.NotifyNewTicket(ctx, payload.Ticket, payload.Owner)
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		n.logger.Warn("unexpected payload", zap.String("event", string(event.Type)))
		return
	}
	n.notifier.NotifyStatusChange(ctx, payload.Ticket, payload.OldStatus, payload.NewStatus, payload.Actor)
}

func (n *NotificationService) handleMessageAdded(ctx context.Context, event events.Event) {
	payload, ok := event.Payload.(events.TicketMessageAddedPayload)
	if !ok {
		n.logger.Warn("unexpected payload", zap.String("event", string(event.Type)))
		return
	}
	n.notifier.NotifyNewMessage(ctx, payload.Ticket, payload.Message, payload.Author)
}
