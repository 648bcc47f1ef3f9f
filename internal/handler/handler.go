// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/questionconnection/backend/internal/auth"
	"github.com/questionconnection/backend/internal/handler/dto"
	"github.com/questionconnection/backend/internal/service"
)

// Handler serves the fallback routes.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// decodeJSON decodes the request body into v and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	return true
}

// callerID returns the authenticated subject.
func callerID(r *http.Request) string {
	return auth.SubjectFromContext(r.Context())
}

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var validationErr *service.ValidationError
	var limitErr *service.RateLimitExceededError

	switch {
	case errors.As(err, &limitErr):
		d := limitErr.Decision
		writeJSON(w, http.StatusForbidden, dto.ProfileImageLimitResponse{
			Error: "Monthly change limit exceeded",
			Message: fmt.Sprintf("You can change your profile image %d times per month. Next change available after %s",
				d.Limit, d.NextAvailableDate()),
			ChangeCount:       d.Count,
			MaxChanges:        d.Limit,
			NextAvailableDate: d.NextAvailableDate(),
		})
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Message)
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden")
	case errors.Is(err, service.ErrBlocked):
		writeError(w, http.StatusForbidden, "BLOCKED", "Messaging is blocked between these users")
	case errors.Is(err, service.ErrSelfBlock):
		writeError(w, http.StatusBadRequest, "SELF_BLOCK", "Cannot block yourself.")
	case errors.Is(err, service.ErrInvalidEncoding):
		writeError(w, http.StatusBadRequest, "INVALID_ENCODING", "Body is not valid base64")
	case errors.Is(err, service.ErrInvalidContentType):
		writeError(w, http.StatusBadRequest, "INVALID_CONTENT_TYPE", "Invalid Content-Type")
	case errors.Is(err, service.ErrNoImageData):
		writeError(w, http.StatusBadRequest, "NO_IMAGE_DATA", "No image data found")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrQuestionNotFound):
		writeError(w, http.StatusNotFound, "QUESTION_NOT_FOUND", "Question not found")
	case errors.Is(err, service.ErrAuthorNotFound):
		writeError(w, http.StatusNotFound, "AUTHOR_NOT_FOUND", "Author profile not found")
	case errors.Is(err, service.ErrThreadNotFound):
		writeError(w, http.StatusNotFound, "THREAD_NOT_FOUND", "Thread not found")
	case errors.Is(err, service.ErrQuestionExists):
		writeError(w, http.StatusConflict, "QUESTION_EXISTS", "Question already exists")
	case errors.Is(err, service.ErrStoreFailure):
		logger.Error("store_failure", "error", err)
		writeError(w, http.StatusInternalServerError, "STORE_FAILURE", "Failed to store data")
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
