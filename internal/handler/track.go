package handler

import (
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/sharetrack/sharetrack/internal/handler/dto"
	"github.com/sharetrack/sharetrack/internal/service"
)

// TrackHandler handles click recording requests.
type TrackHandler struct {
	svc    *service.TrackerService
	logger *slog.Logger
}

// NewTrackHandler creates a new TrackHandler.
func NewTrackHandler(svc *service.TrackerService, logger *slog.Logger) *TrackHandler {
	return &TrackHandler{
		svc:    svc,
		logger: logger,
	}
}

// Track records a click for a video on behalf of a user. The caller's
// network address scopes same-day deduplication. Duplicates get a 200
// with a "duplicate" status so that beacons never see errors for
// repeat fires.
//
// GET /track?vid={video_id}&uid={user_id}
func (h *TrackHandler) Track(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	input := service.RecordClickInput{
		VideoID: query.Get("vid"),
		UserID:  query.Get("uid"),
		Origin:  clientIP(r),
	}

	outcome, err := h.svc.RecordClick(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "MISSING_PARAM", "vid and uid are required")
			return
		}
		h.logger.Error("track_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.logger.Info("click_tracked",
		"video_id", input.VideoID,
		"user_id", input.UserID,
		"outcome", string(outcome),
	)

	writeJSON(w, http.StatusOK, dto.TrackResponse{Status: string(outcome)})
}

// clientIP extracts the caller's IP from RemoteAddr. RealIP middleware
// has already folded proxy headers into RemoteAddr by this point.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
