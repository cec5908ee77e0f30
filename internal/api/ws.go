package api

import (
	"net/http"

	"github.com/190dpa/literate-umbrella/internal/constants"
	"github.com/190dpa/literate-umbrella/internal/hub"
	"github.com/190dpa/literate-umbrella/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the game origin; cross-origin policy
	// is enforced at the session cookie.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades an authenticated request and hands the connection to the
// hub until it closes.
func ServeWS(h *hub.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, username, ok := sessionIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logging.Error("websocket upgrade failed", err, logging.Fields{constants.LogFieldUser: username})
			return
		}
		h.HandleWS(conn, userID, username)
	}
}
