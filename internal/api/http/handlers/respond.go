package handlers

import "github.com/gofiber/fiber/v2"

// success writes the standard success envelope.
func success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}
