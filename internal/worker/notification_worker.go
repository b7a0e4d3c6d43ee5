// Package worker wires background consumers onto the event dispatcher.
package worker

import (
	"go.uber.org/zap"

	"github.com/helpdeskhq/helpdesk-service/internal/events"
	"github.com/helpdeskhq/helpdesk-service/internal/notify"
	"github.com/helpdeskhq/helpdesk-service/internal/service"
)

// StartNotifications builds the notification service and subscribes it to
// every domain event it forwards to Discord. Returns the service so callers
// can hold a reference.
func StartNotifications(dispatcher events.Dispatcher, notifier *notify.DiscordNotifier, logger *zap.Logger) *service.NotificationService {
	svc := service.NewNotificationService(dispatcher, notifier, logger)
	svc.RegisterHandlers()
	logger.Info("notification worker subscribed to event stream")
	return svc
}
