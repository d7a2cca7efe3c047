// handlers/ws.go - Real-time channel
//
// One persistent connection per client. Inbound operations are handled
// in arrival order per connection; lifecycle-touching operations go
// through the match service before anything reaches the relay.
package handlers

import (
	"log"

	"quizarena/middleware"
	"quizarena/realtime"
	"quizarena/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// wsRequest is the envelope for every inbound websocket operation.
type wsRequest struct {
	Type        string `json:"type"`
	RoomID      string `json:"roomId"`
	SessionID   string `json:"sessionId"`
	Message     string `json:"message"`
	QuestionID  uint   `json:"questionId"`
	Answer      int    `json:"answer"`
	ElapsedTime int    `json:"elapsedTime"`
}

// WebSocketUpgrade gates /ws to real upgrade requests and picks up an
// optional identity from a JWT (query token or Authorization header).
// Unauthenticated connections may still spectate rooms.
func WebSocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		auth := c.Get("Authorization")
		if len(auth) > 7 && auth[:7] == "Bearer " {
			token = auth[7:]
		}
	}
	if token != "" {
		if claims, err := middleware.ParseToken(token); err == nil {
			c.Locals("userId", claims["user_id"])
			c.Locals("username", claims["username"])
		}
	}
	return c.Next()
}

// WebSocketHandler runs the read loop for one connection.
func WebSocketHandler(registry *realtime.Registry, matches *services.MatchService) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		var userID uint
		if v, ok := conn.Locals("userId").(float64); ok {
			userID = uint(v)
		}
		username, _ := conn.Locals("username").(string)
		if username == "" {
			username = "anonymous"
		}

		client := realtime.NewClient(uuid.New().String(), userID, username, conn)
		go client.WritePump()
		defer func() {
			registry.Drop(client)
			client.Close()
		}()

		log.Printf("🔌 Websocket client connected: %s (%s)", client.ID, username)

		for {
			var req wsRequest
			if err := conn.ReadJSON(&req); err != nil {
				log.Printf("🔌 Websocket client disconnected: %s", client.ID)
				return
			}
			handleWSRequest(registry, matches, client, req)
		}
	})
}

func handleWSRequest(registry *realtime.Registry, matches *services.MatchService, client *realtime.Client, req wsRequest) {
	switch req.Type {
	case "joinRoom":
		if req.RoomID == "" {
			return
		}
		registry.Join(req.RoomID, client)

	case "joinGame":
		if req.RoomID == "" {
			return
		}
		registry.Join(req.RoomID, client)
		registry.Broadcast(req.RoomID, realtime.Event{
			Type: realtime.EventPlayerJoined,
			Payload: fiber.Map{
				"user_id":  client.UserID,
				"username": client.Username,
			},
		})

	case "leaveRoom":
		registry.Leave(req.RoomID, client)

	case "chatMessage":
		msg, session, err := matches.PostChat(req.SessionID, client.UserID, client.Username, req.Message)
		if err != nil {
			log.Printf("⚠️ Chat message rejected for session %s: %v", req.SessionID, err)
			return
		}
		// The room comes from the session the message was validated
		// against, not from the request.
		registry.Broadcast(session.RoomID, realtime.Event{
			Type:    realtime.EventMessage,
			Payload: msg,
		})

	case "submitAnswer":
		if client.UserID == 0 {
			return // spectators can't play
		}
		result, err := matches.SubmitAnswer(req.SessionID, client.UserID, req.QuestionID, req.Answer, req.ElapsedTime)
		if err != nil {
			log.Printf("⚠️ Answer rejected for session %s: %v", req.SessionID, err)
			return
		}

		roomID := result.Session.RoomID
		registry.Broadcast(roomID, realtime.Event{
			Type: realtime.EventAnswerSubmitted,
			Payload: fiber.Map{
				"user_id":     client.UserID,
				"question_id": result.QuestionID,
				"answer":      result.Answer,
				"is_correct":  result.IsCorrect,
				"points":      result.Points,
			},
		})
		if result.SessionFinished {
			registry.Broadcast(roomID, realtime.Event{
				Type: realtime.EventGameFinished,
				Payload: fiber.Map{
					"session_id": result.Session.ID,
					"end_time":   result.Session.EndTime,
					"players":    result.Session.Players,
				},
			})
		}

	default:
		log.Printf("⚠️ Unknown websocket operation %q from %s", req.Type, client.ID)
	}
}
