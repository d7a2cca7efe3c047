// handlers/session.go - Session lifecycle endpoints
//
// Join/start/leave/delete operate on the session directly; tournament
// and duo routes resolve their record to a session and reuse these
// flows. Every mutation goes through the lifecycle manager first, and
// only a successful mutation is announced to the room.
package handlers

import (
	"quizarena/middleware"
	"quizarena/realtime"
	"quizarena/services"

	"github.com/gofiber/fiber/v2"
)

type joinRequest struct {
	AccessCode string `json:"access_code"`
}

// RecordCleanup removes the kind-specific record (tournament, duo)
// behind a session the lifecycle manager deleted. Wired in main so
// these handlers stay ignorant of the record services.
type RecordCleanup func(kind, sessionID string) error

// GetSession returns the current session record, players decorated with
// user info where it resolved.
// GET /api/sessions/:id
func GetSession(matches *services.MatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := matches.Get(c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "session": session})
	}
}

// JoinSession adds the caller to a session.
// POST /api/sessions/:id/join
func JoinSession(matches *services.MatchService, registry *realtime.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return unauthorized(c)
		}
		var req joinRequest
		_ = c.BodyParser(&req) // public sessions need no body

		session, err := matches.Join(c.Params("id"), userID, req.AccessCode)
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

// StartSession moves the session to active. Creator only.
// POST /api/sessions/:id/start
func StartSession(matches *services.MatchService, registry *realtime.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return unauthorized(c)
		}
		session, err := matches.Start(c.Params("id"), userID)
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
		return c.JSON(fiber.Map{"success": true, "session": session})
	}
}

// LeaveSession removes the caller. An emptied waiting session is
// deleted together with its room and its tournament/duo record.
// POST /api/sessions/:id/leave
func LeaveSession(matches *services.MatchService, registry *realtime.Registry, cleanup RecordCleanup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return unauthorized(c)
		}
		sessionID := c.Params("id")
		session, deleted, err := matches.Leave(sessionID, userID)
		if err != nil {
			return serviceError(c, err)
		}
		if deleted {
			registry.CloseRoom(session.RoomID)
			if err := cleanup(session.Kind, sessionID); err != nil {
				return serviceError(c, err)
			}
			return c.JSON(fiber.Map{"success": true, "message": "Session deleted", "deleted": true})
		}

		registry.Broadcast(session.RoomID, realtime.Event{
			Type: realtime.EventPlayerLeft,
			Payload: fiber.Map{
				"user_id":    userID,
				"creator_id": session.CreatorID,
			},
		})
		return c.JSON(fiber.Map{"success": true, "session": session})
	}
}

// DeleteSession removes a session permanently. Creator only; a running
// match cannot be deleted.
// DELETE /api/sessions/:id
func DeleteSession(matches *services.MatchService, registry *realtime.Registry, cleanup RecordCleanup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return unauthorized(c)
		}
		session, err := matches.Delete(c.Params("id"), userID)
		if err != nil {
			return serviceError(c, err)
		}
		registry.CloseRoom(session.RoomID)
		if err := cleanup(session.Kind, session.ID); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "message": "Session deleted"})
	}
}
