package websocket

import (
	"log"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/leafkeep/leafkeep/internal/auth"
)

// HandleWebSocket upgrades connections to WebSocket and runs them as Hub
// clients under the authenticated user. Must sit behind the auth middleware.
func HandleWebSocket(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())
		if userID == 0 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // SPA may be served from a different origin in dev
		})
		if err != nil {
			log.Printf("websocket: accept: %v", err)
			return
		}

		client := NewClient(hub, conn, userID)
		client.Run(r.Context())
	}
}
