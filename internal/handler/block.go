package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/questionconnection/backend/internal/handler/dto"
	"github.com/questionconnection/backend/internal/service"
)

// BlockHandler handles the caller's block list.
type BlockHandler struct {
	svc    *service.BlockService
	logger *slog.Logger
}

// NewBlockHandler creates a new BlockHandler.
func NewBlockHandler(svc *service.BlockService, logger *slog.Logger) *BlockHandler {
	return &BlockHandler{svc: svc, logger: logger}
}

// Block handles POST /api/v1/users/block.
func (h *BlockHandler) Block(w http.ResponseWriter, r *http.Request) {
	var req dto.BlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.Block(r.Context(), callerID(r), req.BlockedUserID); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BlockResponse{Status: "blocked", BlockedUserID: req.BlockedUserID})
}

// Unblock handles DELETE /api/v1/users/block/{blockedUserId}.
func (h *BlockHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	blockedID := chi.URLParam(r, "blockedUserId")
	if err := h.svc.Unblock(r.Context(), callerID(r), blockedID); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UnblockResponse{Status: "unblocked", UnblockedUserID: blockedID})
}

// List handles GET /api/v1/users/blocklist.
func (h *BlockHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.ListBlocked(r.Context(), callerID(r))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.BlockListResponse{BlockedUserIDs: ids})
}

// Check handles GET /api/v1/users/check-block?targetId=.
func (h *BlockHandler) Check(w http.ResponseWriter, r *http.Request) {
	blocked, err := h.svc.IsBlockedByTarget(r.Context(), callerID(r), r.URL.Query().Get("targetId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CheckBlockResponse{IsBlockedByTarget: blocked})
}
