package handlers

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/kajbd/kajbd-backend/internal/realtime"
	"github.com/kajbd/kajbd-backend/internal/utils"
)

type WSHandler struct {
	Hub       *realtime.Hub
	JWTSecret string
}

func NewWSHandler(hub *realtime.Hub, jwtSecret string) *WSHandler {
	return &WSHandler{Hub: hub, JWTSecret: jwtSecret}
}

// Handle upgrades an authenticated connection and streams hub events to it.
// Auth happens via a token query param since browsers cannot set headers on
// websocket upgrades.
func (h *WSHandler) Handle(conn *websocket.Conn) {
	defer conn.Close()

	claims, err := utils.ParseJWT(h.JWTSecret, conn.Query("token"))
	if err != nil {
		return
	}

	client := &realtime.Client{
		ID:     uuid.NewString(),
		UserID: claims.UserID,
		Conn:   realtime.NewWebSocketConn(conn),
		Send:   make(chan []byte, 256),
	}
	h.Hub.RegisterClient(client)
	defer h.Hub.UnregisterClient(client)

	go func() {
		for msg := range client.Send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	// Inbound frames are ignored; the socket is push-only. The read loop just
	// notices disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
