package handlers

import (
	"net/http"

	"card_arena/internal/logger"
	"card_arena/internal/service"
	"card_arena/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin is allowed because auth happens via the token param,
	// not cookies.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS upgrades the connection and streams queue-status updates to the
// authenticated player. The token travels as a query parameter since
// browsers cannot set headers on websocket dials.
func (h *Handler) WS(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		id, err := service.ParseJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "player_id", id, "error", err)
			return
		}

		client := ws.NewClient(id, conn, hub)
		go client.Run()
	}
}
