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

// TicketService coordinates ticket workflows and authorization.
type TicketService struct {
	store      *storage.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(store *storage.Store, dispatcher events.Dispatcher, logger *zap.Logger) *TicketService {
	return &TicketService{store: store, dispatcher: dispatcher, logger: logger}
}

// TicketCreateInput describes the ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
}

// Create validates, sanitizes, and stores a new ticket for the owner.
// The validation error lists every violation found.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput, ownerID string) (*domain.Ticket, error) {
	violations := validate.TicketData(validate.TicketInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
	})
	if len(violations) > 0 {
		return nil, util.NewValidationError("Invalid ticket data", violations)
	}

	ticket := s.store.CreateTicket(storage.TicketInput{
		Title:       validate.Sanitize(input.Title),
		Description: validate.Sanitize(input.Description),
		Category:    domain.TicketCategory(input.Category),
		Priority:    domain.TicketPriority(input.Priority),
		UserID:      ownerID,
	})

	s.logger.Info("ticket created",
		zap.String("ticketId", ticket.ID),
		zap.String("userId", ownerID),
		zap.String("category", string(ticket.Category)))
	s.publish(ctx, events.Event{
		Type: events.EventTicketCreated,
		Payload: events.TicketCreatedPayload{
			Ticket: ticket,
			Owner:  s.publicUser(ownerID),
		},
	})
	return ticket, nil
}

// ListForUser returns the owner's tickets, newest first.
func (s *TicketService) ListForUser(ownerID string) []*domain.Ticket {
	tickets := s.store.TicketsByUser(ownerID)
	s.logger.Debug("retrieved user tickets",
		zap.String("userId", ownerID),
		zap.Int("count", len(tickets)))
	return tickets
}

// ListAll returns every ticket. Admin only.
func (s *TicketService) ListAll(role domain.Role) ([]*domain.Ticket, error) {
	if role != domain.RoleAdmin {
		return nil, util.NewAuthorizationError("Admin access required")
	}
	tickets := s.store.AllTickets()
	s.logger.Debug("retrieved all tickets", zap.Int("count", len(tickets)))
	return tickets, nil
}

// GetByID returns a ticket the requester may see: its owner or any admin.
func (s *TicketService) GetByID(id, requesterID string, role domain.Role) (*domain.Ticket, error) {
	ticket := s.store.TicketByID(id)
	if ticket == nil {
		return nil, util.NewNotFound("Ticket")
	}
	if role != domain.RoleAdmin && ticket.UserID != requesterID {
		return nil, util.NewAuthorizationError("Access denied to this ticket")
	}
	return ticket, nil
}

// UpdateStatus sets a new status on the ticket. Admin only; the status must
// be a known enum value, but any transition within the enum is allowed.
func (s *TicketService) UpdateStatus(ctx context.Context, id string, status string, requesterID string, role domain.Role) (*domain.Ticket, error) {
	if role != domain.RoleAdmin {
		return nil, util.NewAuthorizationError("Only admins can update ticket status")
	}

	newStatus := domain.TicketStatus(status)
	if !newStatus.Valid() {
		return nil, util.NewValidationError("Invalid status",
			[]string{"Status must be one of: open, in-progress, closed"})
	}

	existing := s.store.TicketByID(id)
	if existing == nil {
		return nil, util.NewNotFound("Ticket")
	}
	oldStatus := existing.Status

	ticket := s.store.UpdateTicketStatus(id, newStatus)
	if ticket == nil {
		return nil, util.NewNotFound("Ticket")
	}

	s.logger.Info("ticket status updated",
		zap.String("ticketId", id),
		zap.String("status", status))
	s.publish(ctx, events.Event{
		Type: events.EventTicketStatusChanged,
		Payload: events.TicketStatusChangedPayload{
			Ticket:    ticket,
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Actor:     s.publicUser(requesterID),
		},
	})
	return ticket, nil
}

// Statistics returns dashboard counters. Admin only.
func (s *TicketService) Statistics(role domain.Role) (domain.Statistics, error) {
	if role != domain.RoleAdmin {
		return domain.Statistics{}, util.NewAuthorizationError("Admin access required")
	}
	return s.store.Statistics(), nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher != nil {
		s.dispatcher.Publish(ctx, event)
	}
}

func (s *TicketService) publicUser(id string) domain.PublicUser {
	if user := s.store.UserByID(id); user != nil {
		return user.Public()
	}
	return domain.PublicUser{ID: id}
}
