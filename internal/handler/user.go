package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/questionconnection/backend/internal/handler/dto"
	"github.com/questionconnection/backend/internal/service"
)

// UserHandler handles profiles and device registration.
type UserHandler struct {
	profiles *service.ProfileService
	devices  *service.DeviceService
	logger   *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(profiles *service.ProfileService, devices *service.DeviceService, logger *slog.Logger) *UserHandler {
	return &UserHandler{profiles: profiles, devices: devices, logger: logger}
}

// GetProfile handles GET /api/v1/users/{userId}.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.profiles.GetProfile(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToProfileResponse(user))
}

// UpdateProfile handles POST and PUT /api/v1/users/{userId}.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.profiles.UpdateProfile(r.Context(), service.UpdateProfileInput{
		CallerID:              callerID(r),
		UserID:                chi.URLParam(r, "userId"),
		Nickname:              req.Nickname,
		NotifyOnCorrectAnswer: req.NotifyOnCorrectAnswer,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToProfileResponse(user))
}

// RegisterDevice handles POST /api/v1/users/{userId}/devices.
func (h *UserHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterDeviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.devices.RegisterDevice(r.Context(), callerID(r), chi.URLParam(r, "userId"), req.DeviceToken); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Device token registered successfully."})
}
