package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
	"github.com/helpdeskhq/helpdesk-service/internal/events"
	"github.com/helpdeskhq/helpdesk-service/internal/storage"
	"github.com/helpdeskhq/helpdesk-service/pkg/util"
	"github.com/helpdeskhq/helpdesk-service/pkg/validate"
)

// ChatService manages the message thread attached to each ticket.
type ChatService struct {
	store      *storage.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewChatService constructs the service.
func NewChatService(store *storage.Store, dispatcher events.Dispatcher, logger *zap.Logger) *ChatService {
	return &ChatService{store: store, dispatcher: dispatcher, logger: logger}
}

// EnrichedMessage is a message annotated with its sender's identity.
// Sender fields fall back to "unknown" when the author record is gone.
type EnrichedMessage struct {
	domain.Message
	SenderRole  string `json:"senderRole"`
	SenderEmail string `json:"senderEmail"`
}

// AddMessage appends a message to a ticket's thread after validating the
// content and checking that the caller is the ticket's owner or an admin.
func (s *ChatService) AddMessage(ctx context.Context, ticketID, userID string, role domain.Role, content string) (*domain.Message, error) {
	if ok, reason := validate.Message(content); !ok {
		return nil, util.NewValidationError(reason, nil)
	}

	ticket, err := s.authorize(ticketID, userID, role)
	if err != nil {
		return nil, err
	}

	message := s.store.AddMessage(ticketID, userID, validate.Sanitize(content))

	s.logger.Info("message added to ticket",
		zap.String("messageId", message.ID),
		zap.String("ticketId", ticketID),
		zap.String("userId", userID))
	if s.dispatcher != nil {
		s.dispatcher.Publish(ctx, events.Event{
			Type: events.EventTicketMessageAdded,
			Payload: events.TicketMessageAddedPayload{
				Ticket:  ticket,
				Message: message,
				Author:  s.publicUser(userID),
			},
		})
	}
	return message, nil
}

// Messages returns a ticket's thread in insertion order, each entry enriched
// with the sender's role and email. Same permission model as AddMessage.
func (s *ChatService) Messages(ticketID, userID string, role domain.Role) ([]EnrichedMessage, error) {
	if _, err := s.authorize(ticketID, userID, role); err != nil {
		return nil, err
	}

	messages := s.store.MessagesByTicket(ticketID)
	enriched := make([]EnrichedMessage, 0, len(messages))
	for _, message := range messages {
		entry := EnrichedMessage{Message: *message, SenderRole: "unknown", SenderEmail: "unknown"}
		if sender := s.store.UserByID(message.UserID); sender != nil {
			entry.SenderRole = string(sender.Role)
			entry.SenderEmail = sender.Email
		}
		enriched = append(enriched, entry)
	}

	s.logger.Debug("retrieved ticket messages",
		zap.String("ticketId", ticketID),
		zap.Int("count", len(enriched)))
	return enriched, nil
}

func (s *ChatService) authorize(ticketID, userID string, role domain.Role) (*domain.Ticket, error) {
	ticket := s.store.TicketByID(ticketID)
	if ticket == nil {
		return nil, util.NewNotFound("Ticket")
	}
	if role != domain.RoleAdmin && ticket.UserID != userID {
		return nil, util.NewAuthorizationError("Access denied to this ticket")
	}
	return ticket, nil
}

func (s *ChatService) publicUser(id string) domain.PublicUser {
	if user := s.store.UserByID(id); user != nil {
		return user.Public()
	}
	return domain.PublicUser{ID: id}
}
