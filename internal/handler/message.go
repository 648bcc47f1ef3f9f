package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/questionconnection/backend/internal/handler/dto"
	"github.com/questionconnection/backend/internal/service"
)

// MessageHandler handles direct messaging.
type MessageHandler struct {
	svc    *service.MessageService
	logger *slog.Logger
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(svc *service.MessageService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/threads.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	thread, err := h.svc.SendMessage(r.Context(), service.SendMessageInput{
		CallerID:      callerID(r),
		SenderID:      req.SenderID,
		RecipientID:   req.RecipientID,
		Text:          req.MessageBody(),
		QuestionTitle: req.QuestionTitle,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, thread)
}

// ListThreads handles GET /api/v1/users/{userId}/threads.
func (h *MessageHandler) ListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.svc.ListThreads(r.Context(), callerID(r), chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ThreadListResponse{Threads: threads})
}

// ListMessages handles GET /api/v1/threads/{threadId}/messages.
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.svc.ListMessages(r.Context(), callerID(r), chi.URLParam(r, "threadId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageListResponse{Messages: messages})
}
