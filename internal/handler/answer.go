package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/questionconnection/backend/internal/handler/dto"
	"github.com/questionconnection/backend/internal/service"
)

// AnswerHandler handles answer logging and statistics.
type AnswerHandler struct {
	svc    *service.AnswerService
	logger *slog.Logger
}

// NewAnswerHandler creates a new AnswerHandler.
func NewAnswerHandler(svc *service.AnswerService, logger *slog.Logger) *AnswerHandler {
	return &AnswerHandler{svc: svc, logger: logger}
}

// Log handles POST /api/v1/answers.
func (h *AnswerHandler) Log(w http.ResponseWriter, r *http.Request) {
	var req dto.LogAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	log, err := h.svc.LogAnswer(r.Context(), service.LogAnswerInput{
		CallerID:         callerID(r),
		UserID:           req.UserID,
		QuestionID:       req.QuestionID,
		SelectedChoiceID: req.SelectedChoiceID,
		IsCorrect:        req.IsCorrect,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LogAnswerResponse{
		Message: "Answer logged successfully",
		LogID:   log.ID,
	})
}

// Status handles GET /api/v1/answers/status?questionId=.
func (h *AnswerHandler) Status(w http.ResponseWriter, r *http.Request) {
	answered, err := h.svc.HasAnswered(r.Context(), callerID(r), r.URL.Query().Get("questionId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AnswerStatusResponse{HasAnswered: answered})
}

// Stats handles GET /api/v1/users/{userId}/stats.
func (h *AnswerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetUserStats(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
