package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/physicistcolloh-png/base43/internal/services"
)

// ChatHandler passes chat messages to the completion service.
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler constructs a handler with the provided service.
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ChatRouter registers chat routes on the given router.
func ChatRouter(r chi.Router, chatService *services.ChatService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewChatHandler(chatService)

	r.With(authMiddleware).Post("/", handler.Chat)
}

// Chat forwards the message and its history to the completion API.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.chatService.Complete(r.Context(), req.Message, req.ConversationHistory)
	if err != nil {
		if errors.Is(err, services.ErrChatUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "completion service not configured")
			return
		}
		writeError(w, http.StatusBadGateway, "failed to generate response")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

type ChatRequest struct {
	Message             string                 `json:"message"`
	ConversationHistory []services.ChatMessage `json:"conversation_history"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
