package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sharetrack/sharetrack/internal/handler/dto"
	"github.com/sharetrack/sharetrack/internal/model"
	"github.com/sharetrack/sharetrack/internal/service"
)

// ReferralHandler handles HTTP requests for the referral ledger.
type ReferralHandler struct {
	svc    *service.ReferralService
	logger *slog.Logger
}

// NewReferralHandler creates a new ReferralHandler.
func NewReferralHandler(svc *service.ReferralService, logger *slog.Logger) *ReferralHandler {
	return &ReferralHandler{
		svc:    svc,
		logger: logger,
	}
}

// Code handles POST /api/referral/code. Returns the caller's code,
// minting one on first request. Repeat requests always return the same
// code.
func (h *ReferralHandler) Code(w http.ResponseWriter, r *http.Request) {
	var req dto.ReferralCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	code, err := h.svc.GetOrCreateCode(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "MISSING_PARAM", "user_id is required")
			return
		}
		h.logger.Error("referral_code_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.ReferralCodeResponse{
		UserID: req.UserID,
		Code:   code,
	})
}

// Register handles POST /api/referral/register. Self-referrals and
// repeats are reported in the status, not as HTTP errors; only an
// unknown code is a 404.
func (h *ReferralHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.ReferralRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	outcome, err := h.svc.RegisterReferral(r.Context(), req.Code, req.NewUserID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "MISSING_PARAM", "code and new_user_id are required")
			return
		}
		h.logger.Error("referral_register_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.logger.Info("referral_registered",
		"code", req.Code,
		"new_user_id", req.NewUserID,
		"outcome", string(outcome),
	)

	if outcome == model.ReferralUnknownCode {
		writeError(w, http.StatusNotFound, "CODE_NOT_FOUND", "Referral code not found")
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: string(outcome)})
}

// Ranking handles GET /api/referral/ranking.
func (h *ReferralHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Ranking(r.Context())
	if err != nil {
		h.logger.Error("referral_ranking_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRankingResponse(entries))
}

// Reset handles POST /api/referral/reset. Admin only. Counts go to
// zero; user to code bindings survive.
func (h *ReferralHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetCounts(r.Context()); err != nil {
		h.logger.Error("referral_reset_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.logger.Info("referral_counts_reset")

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "reset"})
}
