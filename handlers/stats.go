// handlers/stats.go - Per-game statistics
package handlers

import (
	"quizarena/middleware"
	"quizarena/services"

	"github.com/gofiber/fiber/v2"
)

// CreateStatistic records one finished game for the caller.
// POST /api/statistics
func CreateStatistic(stats *services.StatsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return unauthorized(c)
		}
		var req services.StatInput
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		stat, err := stats.Record(userID, req)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(201).JSON(fiber.Map{"success": true, "statistic": stat})
	}
}

// GetUserStatistics lists a user's stat rows, newest first.
// GET /api/statistics/user/:id
func GetUserStatistics(stats *services.StatsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramUint(c, "id")
		if err != nil {
			return badRequest(c, "Invalid user ID")
		}
		list, err := stats.ListByUser(id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "statistics": list})
	}
}
