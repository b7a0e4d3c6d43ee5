package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdeskhq/helpdesk-service/internal/api/dto"
	"github.com/helpdeskhq/helpdesk-service/internal/auth"
	"github.com/helpdeskhq/helpdesk-service/internal/domain"
	"github.com/helpdeskhq/helpdesk-service/internal/service"
	"github.com/helpdeskhq/helpdesk-service/pkg/util"
)

// TicketsHandler exposes ticket CRUD and statistics endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService}
}

// Create handles POST /api/tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewAuthenticationError("Authentication required")
	}

	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Invalid request body", nil)
	}

	ticket, err := h.tickets.Create(c.UserContext(), service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	}, principal.UserID)
	if err != nil {
		return err
	}

	return success(c, http.StatusCreated, ticket)
}

// List handles GET /api/tickets. Clients see their own tickets, admins see
// every ticket.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewAuthenticationError("Authentication required")
	}

	var tickets []*domain.Ticket
	if principal.IsAdmin() {
		all, err := h.tickets.ListAll(principal.Role)
		if err != nil {
			return err
		}
		tickets = all
	} else {
		tickets = h.tickets.ListForUser(principal.UserID)
	}
	if tickets == nil {
		tickets = []*domain.Ticket{}
	}

	return success(c, http.StatusOK, tickets)
}

// Get handles GET /api/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewAuthenticationError("Authentication required")
	}

	ticket, err := h.tickets.GetByID(c.Params("id"), principal.UserID, principal.Role)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, ticket)
}

// UpdateStatus handles PATCH /api/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewAuthenticationError("Authentication required")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Invalid request body", nil)
	}

	ticket, err := h.tickets.UpdateStatus(c.UserContext(), c.Params("id"), req.Status, principal.UserID, principal.Role)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, ticket)
}

// Statistics handles GET /api/tickets/stats/overview.
func (h *TicketsHandler) Statistics(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewAuthenticationError("Authentication required")
	}

	stats, err := h.tickets.Statistics(principal.Role)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, stats)
}
