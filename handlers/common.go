// handlers/common.go - Shared response and error mapping helpers
package handlers

import (
	"errors"
	"strconv"

	"quizarena/services"

	"github.com/gofiber/fiber/v2"
)

// kindForError gives clients a stable machine-readable error kind.
func kindForError(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, services.ErrNotFound):
		return "not_found"
	case errors.Is(err, services.ErrForbidden):
		return "forbidden"
	case errors.Is(err, services.ErrFull):
		return "full"
	case errors.Is(err, services.ErrAlreadyJoined):
		return "already_joined"
	case errors.Is(err, services.ErrInsufficientPlayers):
		return "insufficient_players"
	case errors.Is(err, services.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, services.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "internal"
	}
}

func statusForError(err error) int {
	switch kindForError(err) {
	case "invalid_input":
		return fiber.StatusBadRequest
	case "not_found":
		return fiber.StatusNotFound
	case "forbidden":
		return fiber.StatusForbidden
	case "full", "already_joined", "insufficient_players", "invalid_state":
		return fiber.StatusConflict
	case "store_unavailable":
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// serviceError renders a lifecycle error with its kind and message.
func serviceError(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"success": false,
		"kind":    kindForError(err),
		"error":   err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   "Unauthorized",
	})
}

func paramUint(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
