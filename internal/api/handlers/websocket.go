package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/devhire/backend/internal/realtime"
	"github.com/devhire/backend/internal/session"
	"github.com/devhire/backend/internal/token"
)

type WebSocketHandler struct {
	hub      *realtime.Hub
	tokens   *token.Service
	sessions *session.Store
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *realtime.Hub, tokens *token.Service, sessions *session.Store) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      hub,
		tokens:   tokens,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe upgrades the connection and streams job offer events.
// Browsers cannot set headers on websocket dials, so the access token
// arrives as a query parameter instead of a cookie.
func (h *WebSocketHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		if cookie, err := r.Cookie("accessToken"); err == nil {
			tokenString = cookie.Value
		}
	}
	if tokenString == "" {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}

	userID, err := h.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Access token expired")
		return
	}
	if _, err := h.sessions.Get(r.Context(), userID); err != nil {
		respondError(w, http.StatusUnauthorized, "Please login to access this resource")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ERROR [handlers.Subscribe] websocket upgrade failed: %v", err)
		return
	}

	realtime.NewClient(h.hub, conn, userID).Start()
}
