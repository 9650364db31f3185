package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vark-assistant/internal/middleware"
	"vark-assistant/internal/models"
)

type chatService interface {
	History(ctx context.Context, sessionID uuid.UUID) (models.History, error)
	Send(ctx context.Context, sessionID uuid.UUID, message string) (models.History, error)
}

type ChatHandler struct {
	chat   chatService
	logger *zap.Logger
}

func NewChatHandler(chat chatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	history, err := h.chat.History(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to load history", zap.String("session_id", sessionID.String()), zap.Error(err))
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{History: history})
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	sessionID := middleware.GetSessionID(r.Context())
	history, err := h.chat.Send(r.Context(), sessionID, req.Message)
	if err != nil {
		h.logger.Warn("chat submission failed", zap.String("session_id", sessionID.String()), zap.Error(err))
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{History: history})
}
