// handlers/debug.go - Troubleshooting endpoints for the relay
package handlers

import (
	"quizarena/realtime"

	"github.com/gofiber/fiber/v2"
)

// GetActiveRooms lists rooms with member counts.
// GET /api/debug/rooms
func GetActiveRooms(registry *realtime.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "rooms": registry.Rooms()})
	}
}
