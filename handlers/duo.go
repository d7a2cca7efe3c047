// handlers/duo.go - Duo match endpoints
package handlers

import (
	"quizarena/middleware"
	"quizarena/services"

	"github.com/gofiber/fiber/v2"
)

// CreateDuo creates a duo match and its two-player session. Joining,
// starting and leaving go through the session endpoints.
// POST /api/duos
func CreateDuo(duos *services.DuoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return unauthorized(c)
		}
		var req services.CreateDuoInput
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		duo, session, err := duos.Create(userID, req)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(201).JSON(fiber.Map{
			"success":     true,
			"duo":         duo,
			"session_id":  session.ID,
			"room_id":     session.RoomID,
			"access_code": session.AccessCode,
		})
	}
}

// GetDuo returns one duo with its session.
// GET /api/duos/:id
func GetDuo(duos *services.DuoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramUint(c, "id")
		if err != nil {
			return badRequest(c, "Invalid duo ID")
		}
		duo, err := duos.Get(id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "duo": duo})
	}
}
