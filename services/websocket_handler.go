package services

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/jobhelper/backend/models"
	"github.com/jobhelper/backend/repository"
	ws "github.com/jobhelper/backend/websocket"
)

// WebSocketHandler upgrades transcript-feed connections. A client watches
// one interview or training session it owns; message writes still happen
// over HTTP.
type WebSocketHandler struct {
	convRepo *repository.ConversationRepository
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(convRepo *repository.ConversationRepository, hub *ws.Hub, allowedOrigins string) *WebSocketHandler {
	return &WebSocketHandler{
		convRepo: convRepo,
		hub:      hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return CheckOrigin(r, allowedOrigins)
			},
		},
	}
}

func (h *WebSocketHandler) TranscriptHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		slog.Error("WebSocket connection failed - user not found in context")
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "Session ID is required", http.StatusBadRequest)
		return
	}

	owned, err := h.ownsSession(r, sessionID, user.ID)
	if err != nil {
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}
	if !owned {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	slog.Info("WebSocket connection established", "user_id", user.ID, "session_id", sessionID)

	client := h.hub.RegisterClient(conn, user.ID, sessionID)
	go client.WritePump()
	client.ReadPump()
}

// ownsSession accepts either conversation kind; session IDs are UUIDs so
// the two tables cannot collide.
func (h *WebSocketHandler) ownsSession(r *http.Request, sessionID, userID string) (bool, error) {
	interview, err := h.convRepo.GetInterviewSession(r.Context(), sessionID, userID)
	if err != nil {
		return false, err
	}
	if interview != nil {
		return true, nil
	}

	training, err := h.convRepo.GetTrainingSession(r.Context(), sessionID, userID)
	if err != nil {
		return false, err
	}
	return training != nil, nil
}
