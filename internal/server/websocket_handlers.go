package server

import (
	"ripple/internal/middleware"
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// IssueWSSession handles POST /api/ws/session. Browsers cannot set an
// Authorization header on a websocket upgrade, so authenticated clients
// exchange their bearer token for a short-lived single-use session ID and
// pass it as the websocketId query parameter on /api/ws.
func (s *Server) IssueWSSession(c *fiber.Ctx) error {
	token, err := s.sessions.Issue(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"websocket_id": token,
		"expires_in":   300,
	})
}

// WebsocketHandler handles GET /api/ws. The upgrade is authenticated by
// claiming the single-use session issued by IssueWSSession.
func (s *Server) WebsocketHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("userID").(uint)
		if !ok || s.hub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("websocket registration rejected",
				"user_id", userID, "error", err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		token := c.Query("websocketId")
		if token == "" {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("websocketId query parameter required"))
		}

		userID, err := s.sessions.Claim(c.Context(), token)
		if err != nil {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Invalid or expired websocket session"))
		}

		c.Locals("userID", userID)
		return upgrade(c)
	}
}
