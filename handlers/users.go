// handlers/users.go - Profiles, aggregate stats and leaderboard
package handlers

import (
	"quizarena/middleware"
	"quizarena/services"

	"github.com/gofiber/fiber/v2"
)

// GetProfile returns a public user profile.
// GET /api/users/profile/:id
func GetProfile(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramUint(c, "id")
		if err != nil {
			return badRequest(c, "Invalid user ID")
		}
		user, err := users.GetUser(id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "user": user})
	}
}

// UpdateProfile updates the authenticated user's profile.
// PUT /api/users/profile
func UpdateProfile(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return unauthorized(c)
		}
		var req services.ProfileUpdate
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		user, err := users.UpdateProfile(userID, req)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "user": user})
	}
}

// UpdateStats adds finished-game deltas to the user's aggregates.
// PUT /api/users/stats
func UpdateStats(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return unauthorized(c)
		}
		var req services.StatsUpdate
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		user, err := users.BumpStats(userID, req)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":         true,
			"total_games":     user.TotalGames,
			"wins":            user.Wins,
			"correct_answers": user.CorrectAnswers,
			"total_questions": user.TotalQuestions,
		})
	}
}

// GetLeaderboard returns the top players by wins.
// GET /api/users/leaderboard
func GetLeaderboard(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 10)
		top, err := users.Leaderboard(limit)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "leaderboard": top})
	}
}
