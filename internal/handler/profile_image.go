package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/questionconnection/backend/internal/service"
)

// ProfileImageHandler handles profile image uploads.
type ProfileImageHandler struct {
	svc    *service.ProfileImageService
	logger *slog.Logger
}

// NewProfileImageHandler creates a new ProfileImageHandler.
func NewProfileImageHandler(svc *service.ProfileImageService, logger *slog.Logger) *ProfileImageHandler {
	return &ProfileImageHandler{svc: svc, logger: logger}
}

// Upload handles POST /api/v1/users/{userId}/profile-image.
// The body is the raw multipart/form-data payload.
func (h *ProfileImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
		return
	}

	result, err := h.svc.UploadProfileImage(r.Context(), service.UploadProfileImageInput{
		CallerID:      callerID(r),
		UserID:        chi.URLParam(r, "userId"),
		Body:          body,
		Base64Encoded: strings.EqualFold(r.Header.Get("Content-Transfer-Encoding"), "base64"),
		ContentType:   r.Header.Get("Content-Type"),
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
