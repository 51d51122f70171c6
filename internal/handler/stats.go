package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sharetrack/sharetrack/internal/handler/dto"
	"github.com/sharetrack/sharetrack/internal/service"
)

// StatsHandler serves click aggregates and admin resets.
type StatsHandler struct {
	svc    *service.TrackerService
	logger *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(svc *service.TrackerService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		svc:    svc,
		logger: logger,
	}
}

// UserStats handles GET /api/user_stats?user_id={id}. A user with no
// recorded clicks gets a zero count, not a 404.
func (h *StatsHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	count, err := h.svc.CountForUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "MISSING_PARAM", "user_id is required")
			return
		}
		h.logger.Error("user_stats_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.UserStatsResponse{
		UserID: userID,
		Count:  count,
	})
}

// Ranking handles GET /api/ranking.
func (h *StatsHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Ranking(r.Context())
	if err != nil {
		h.logger.Error("ranking_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRankingResponse(entries))
}

// ResetClicks handles POST /api/reset_clicks. Admin only.
func (h *StatsHandler) ResetClicks(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetClicks(r.Context()); err != nil {
		h.logger.Error("reset_clicks_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.logger.Info("clicks_reset")

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "reset"})
}
