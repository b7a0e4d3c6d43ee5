package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdeskhq/helpdesk-service/internal/api/dto"
	"github.com/helpdeskhq/helpdesk-service/internal/auth"
	"github.com/helpdeskhq/helpdesk-service/internal/service"
	"github.com/helpdeskhq/helpdesk-service/pkg/util"
)

// ChatHandler exposes per-ticket messaging endpoints.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler constructs the handler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chatService}
}

// AddMessage handles POST /api/chat/:ticketId/messages.
func (h *ChatHandler) AddMessage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewAuthenticationError("Authentication required")
	}

	var req dto.AddMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Invalid request body", nil)
	}

	message, err := h.chat.AddMessage(c.UserContext(), c.Params("ticketId"), principal.UserID, principal.Role, req.Content)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, message)
}

// Messages handles GET /api/chat/:ticketId/messages.
func (h *ChatHandler) Messages(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewAuthenticationError("Authentication required")
	}

	messages, err := h.chat.Messages(c.Params("ticketId"), principal.UserID, principal.Role)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, messages)
}
