package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
	"github.com/helpdeskhq/helpdesk-service/pkg/util"
)

// RequireAdmin ensures the authenticated caller holds the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return util.NewAuthenticationError("Authentication required")
		}
		if principal.Role != domain.RoleAdmin {
			return util.NewAuthorizationError("Admin access required")
		}
		return c.Next()
	}
}
