// handlers/quiz.go - Quiz CRUD
package handlers

import (
	"quizarena/middleware"
	"quizarena/services"

	"github.com/gofiber/fiber/v2"
)

// GetQuizzes lists public quizzes without correct answers.
// GET /api/quizzes
func GetQuizzes(quizzes *services.QuizService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := quizzes.ListPublic()
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "quizzes": list})
	}
}

// GetQuiz returns one quiz without correct answers.
// GET /api/quizzes/:id
func GetQuiz(quizzes *services.QuizService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramUint(c, "id")
		if err != nil {
			return badRequest(c, "Invalid quiz ID")
		}
		quiz, err := quizzes.Get(id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "quiz": quiz})
	}
}

// GetFullQuiz returns a quiz including answers. Creator only.
// GET /api/quizzes/:id/full
func GetFullQuiz(quizzes *services.QuizService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return unauthorized(c)
		}
		id, err := paramUint(c, "id")
		if err != nil {
			return badRequest(c, "Invalid quiz ID")
		}
		quiz, err := quizzes.GetFull(id, userID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "quiz": quiz})
	}
}

// CreateQuiz creates a quiz owned by the caller.
// POST /api/quizzes
func CreateQuiz(quizzes *services.QuizService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return unauthorized(c)
		}
		var req services.QuizInput
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		quiz, err := quizzes.Create(userID, req)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(201).JSON(fiber.Map{"success": true, "quiz": quiz})
	}
}

// UpdateQuiz updates a quiz. Creator only.
// PUT /api/quizzes/:id
func UpdateQuiz(quizzes *services.QuizService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return unauthorized(c)
		}
		id, err := paramUint(c, "id")
		if err != nil {
			return badRequest(c, "Invalid quiz ID")
		}
		var req services.QuizInput
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		quiz, err := quizzes.Update(id, userID, req)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "quiz": quiz})
	}
}

// DeleteQuiz deletes a quiz. Creator only.
// DELETE /api/quizzes/:id
func DeleteQuiz(quizzes *services.QuizService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return unauthorized(c)
		}
		id, err := paramUint(c, "id")
		if err != nil {
			return badRequest(c, "Invalid quiz ID")
		}
		if err := quizzes.Delete(id, userID); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "message": "Quiz deleted"})
	}
}
