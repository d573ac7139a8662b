package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"library-api/middleware"
	"library-api/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	Hub *utils.Hub
}

func NewWSHandler(hub *utils.Hub) *WSHandler {
	return &WSHandler{Hub: hub}
}

// Serve upgrades the connection and streams the user's notification pushes
// until the client disconnects.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := &utils.Client{
		UserID: claims.UserID,
		Conn:   conn,
		Send:   make(chan []byte, 8),
	}
	h.Hub.Register <- client

	go func() {
		defer conn.Close()
		for msg := range client.Send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	// Reader loop only detects disconnects; clients never send.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.Hub.Unregister <- client
}
