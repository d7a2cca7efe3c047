// handlers/tournament.go - Tournament endpoints
package handlers

import (
	"fmt"

	"quizarena/middleware"
	"quizarena/realtime"
	"quizarena/services"

	"github.com/gofiber/fiber/v2"
)

// GetTournaments lists all tournaments.
// GET /api/tournaments
func GetTournaments(tournaments *services.TournamentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := tournaments.List()
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "tournaments": list})
	}
}

// GetTournament returns one tournament with its session.
// GET /api/tournaments/:id
func GetTournament(tournaments *services.TournamentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramUint(c, "id")
		if err != nil {
			return badRequest(c, "Invalid tournament ID")
		}
		tournament, err := tournaments.Get(id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "tournament": tournament})
	}
}

// CreateTournament creates a tournament and its backing session. The
// access code is only ever returned here, to the creator.
// POST /api/tournaments
func CreateTournament(tournaments *services.TournamentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return unauthorized(c)
		}
		var req services.CreateTournamentInput
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		tournament, session, err := tournaments.Create(userID, req)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(201).JSON(fiber.Map{
			"success":     true,
			"tournament":  tournament,
			"session_id":  session.ID,
			"room_id":     session.RoomID,
			"access_code": session.AccessCode,
		})
	}
}

// resolveSession maps a tournament route param to its session ID.
func resolveSession(c *fiber.Ctx, tournaments *services.TournamentService) (string, error) {
	id, err := paramUint(c, "id")
	if err != nil {
		return "", fmt.Errorf("%w: invalid tournament id", services.ErrInvalidInput)
	}
	return tournaments.SessionID(id)
}

// JoinTournament adds the caller to the tournament's session.
// POST /api/tournaments/:id/join
func JoinTournament(tournaments *services.TournamentService, matches *services.MatchService, registry *realtime.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return unauthorized(c)
		}
		sessionID, err := resolveSession(c, tournaments)
		if err != nil {
			return serviceError(c, err)
		}
		var req joinRequest
		_ = c.BodyParser(&req)

		session, err := matches.Join(sessionID, userID, req.AccessCode)
		if err != nil {
			return serviceError(c, err)
		}
		registry.Broadcast(session.RoomID, realtime.Event{
			Type: realtime.EventPlayerJoined,
			Payload: fiber.Map{
				"user_id":  userID,
				"username": middleware.Username(c),
			},
		})
		return c.JSON(fiber.Map{"success": true, "session": session})
	}
}

// StartTournament starts the tournament's session. Creator only.
// POST /api/tournaments/:id/start
func StartTournament(tournaments *services.TournamentService, matches *services.MatchService, registry *realtime.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return unauthorized(c)
		}
		sessionID, err := resolveSession(c, tournaments)
		if err != nil {
			return serviceError(c, err)
		}
		session, err := matches.Start(sessionID, userID)
		if err != nil {
			return serviceError(c, err)
		}
		registry.Broadcast(session.RoomID, realtime.Event{
			Type: realtime.EventGameStarted,
			Payload: fiber.Map{
				"session_id": session.ID,
				"start_time": session.StartTime,
			},
		})
		return c.JSON(fiber.Map{"success": true, "message": "Tournament started", "session": session})
	}
}

// LeaveTournament removes the caller; the tournament record goes away
// with its session if the last waiting player leaves.
// POST /api/tournaments/:id/leave
func LeaveTournament(tournaments *services.TournamentService, matches *services.MatchService, registry *realtime.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return unauthorized(c)
		}
		sessionID, err := resolveSession(c, tournaments)
		if err != nil {
			return serviceError(c, err)
		}
		session, deleted, err := matches.Leave(sessionID, userID)
		if err != nil {
			return serviceError(c, err)
		}
		if deleted {
			registry.CloseRoom(session.RoomID)
			if err := tournaments.DeleteBySession(sessionID); err != nil {
				return serviceError(c, err)
			}
			return c.JSON(fiber.Map{"success": true, "message": "Tournament deleted", "deleted": true})
		}

		registry.Broadcast(session.RoomID, realtime.Event{
			Type: realtime.EventPlayerLeft,
			Payload: fiber.Map{
				"user_id":    userID,
				"creator_id": session.CreatorID,
			},
		})
		return c.JSON(fiber.Map{"success": true, "message": "Left tournament successfully", "session": session})
	}
}

// DeleteTournament deletes the tournament and its session. Creator
// only; a running tournament cannot be deleted.
// DELETE /api/tournaments/:id
func DeleteTournament(tournaments *services.TournamentService, matches *services.MatchService, registry *realtime.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return unauthorized(c)
		}
		id, err := paramUint(c, "id")
		if err != nil {
			return badRequest(c, "Invalid tournament ID")
		}
		sessionID, err := tournaments.SessionID(id)
		if err != nil {
			return serviceError(c, err)
		}
		session, err := matches.Delete(sessionID, userID)
		if err != nil {
			return serviceError(c, err)
		}
		registry.CloseRoom(session.RoomID)
		if err := tournaments.DeleteRecord(id); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "message": "Tournament deleted successfully"})
	}
}
