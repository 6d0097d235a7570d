package server

import (
	"context"

	"promptly/internal/middleware"
	"promptly/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketFeedHandler streams engagement events to the caller. Non-upgrade requests are
// answered with 426.
func (s *Server) WebSocketFeedHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(middleware.LocalUserID).(uint)
		if userID == 0 {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		client, err := s.feedHub.Register(userID, conn)
		if err != nil {
			observability.NewWSLogger(s.feedHub.Name()).LogError(context.Background(), userID, err, "register")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"connected"}`))

		go client.WritePump()
		client.ReadPump()
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return upgrade(c)
	}
}
