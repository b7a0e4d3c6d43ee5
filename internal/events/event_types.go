package events

import (
	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

// Type enumerates supported event identifiers.
type Type string

const (
	EventUserRegistered      Type = "user_registered"
	EventTicketCreated       Type = "ticket_created"
	EventTicketStatusChanged Type = "ticket_status_changed"
	EventTicketMessageAdded  Type = "ticket_message_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	Type    Type
	Payload interface{}
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	User domain.PublicUser
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Ticket *domain.Ticket
	Owner  domain.PublicUser
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	Ticket    *domain.Ticket
	OldStatus domain.TicketStatus
	NewStatus domain.TicketStatus
	Actor     domain.PublicUser
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	Ticket  *domain.Ticket
	Message *domain.Message
	Author  domain.PublicUser
}
