package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sharetrack/sharetrack/internal/handler/dto"
	"github.com/sharetrack/sharetrack/internal/service"
)

// VideoHandler handles HTTP requests for the video registry.
type VideoHandler struct {
	svc    *service.VideoService
	logger *slog.Logger
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(svc *service.VideoService, logger *slog.Logger) *VideoHandler {
	return &VideoHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/register. Registering the same title again
// without an explicit id resolves to the same video and is a no-op for
// its click count.
func (h *VideoHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	video, err := h.svc.Register(r.Context(), service.RegisterVideoInput{
		VideoID:      req.VideoID,
		Title:        req.Title,
		ThumbnailURL: req.ThumbnailURL,
		VideoURL:     req.VideoURL,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("video_registered",
		"video_id", video.ID,
		"title", video.Title,
	)

	writeJSON(w, http.StatusOK, dto.RegisterVideoResponse{
		Status:  "ok",
		VideoID: video.ID,
	})
}

// Edit handles POST /api/edit_video.
func (h *VideoHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req dto.EditVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	video, err := h.svc.Edit(r.Context(), service.EditVideoInput{
		VideoID:      req.VideoID,
		Title:        req.Title,
		ThumbnailURL: req.ThumbnailURL,
		VideoURL:     req.VideoURL,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("video_updated", "video_id", video.ID)

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "updated"})
}

// Delete handles POST /api/delete_video.
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req dto.DeleteVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.svc.Delete(r.Context(), req.VideoID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("video_deleted", "video_id", req.VideoID)

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "deleted"})
}

// Get handles GET /api/videos/{id}.
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Video ID is required")
		return
	}

	video, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToVideoResponse(video))
}

// handleServiceError maps service errors to HTTP responses.
func (h *VideoHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "Missing or invalid required field")
	case errors.Is(err, service.ErrVideoNotFound):
		writeError(w, http.StatusNotFound, "VIDEO_NOT_FOUND", "Video not found")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
