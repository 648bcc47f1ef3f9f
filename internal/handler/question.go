package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/questionconnection/backend/internal/handler/dto"
	"github.com/questionconnection/backend/internal/service"
)

// QuestionHandler handles quiz authoring and completion.
type QuestionHandler struct {
	svc    *service.QuestionService
	quiz   *service.QuizService
	logger *slog.Logger
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(svc *service.QuestionService, quiz *service.QuizService, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{svc: svc, quiz: quiz, logger: logger}
}

// Create handles POST /api/v1/questions.
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateQuestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	q, err := h.svc.CreateQuestion(r.Context(), service.CreateQuestionInput{
		CallerID:        callerID(r),
		QuestionID:      req.QuestionID,
		Title:           req.Title,
		AuthorID:        req.AuthorID,
		Purpose:         req.Purpose,
		Tags:            req.Tags,
		Remarks:         req.Remarks,
		DMInviteMessage: req.DMInviteMessage,
		QuizItems:       req.QuizItems,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, q)
}

// Get handles GET /api/v1/questions/{questionId}.
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.GetQuestion(r.Context(), chi.URLParam(r, "questionId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// ListByAuthor handles GET /api/v1/users/{userId}/questions.
func (h *QuestionHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListQuestionsByAuthor(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.QuestionListResponse{Items: items})
}

// Complete handles POST /api/v1/questions/{questionId}/complete.
func (h *QuestionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req dto.CompleteQuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.quiz.CompleteQuiz(r.Context(), service.CompleteQuizInput{
		CallerID:       callerID(r),
		QuestionID:     chi.URLParam(r, "questionId"),
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
