package handlers

import (
	"net/http"

	"github.com/wonny/finboard/internal/squeeze"
	"github.com/wonny/finboard/pkg/config"
	"github.com/wonny/finboard/pkg/logger"
)

// SqueezeHandler handles the short squeeze endpoints
type SqueezeHandler struct {
	analyzer *squeeze.Analyzer
	config   *config.Config
	logger   *logger.Logger
}

// NewSqueezeHandler creates a new squeeze handler
func NewSqueezeHandler(a *squeeze.Analyzer, cfg *config.Config, log *logger.Logger) *SqueezeHandler {
	return &SqueezeHandler{analyzer: a, config: cfg, logger: log}
}

// Candidates returns today's squeeze candidate ranking
// GET /api/squeeze/candidates?limit=30
func (h *SqueezeHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := queryInt(r, "limit", h.config.Screener.DefaultLimit)

	candidates, err := h.analyzer.Candidates(ctx, limit)
	if err != nil {
		h.logger.WithError(err).Error("숏스퀴즈 후보 조회 실패")
		respondError(w, http.StatusInternalServerError, "Failed to scan squeeze candidates")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":      len(candidates),
		"candidates": candidates,
	})
}

// Analyze scores a single stock for squeeze potential
// GET /api/squeeze/{code}
func (h *SqueezeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code, ok := pathCode(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid stock code (expected 6 digits)")
		return
	}

	score, err := h.analyzer.Analyze(ctx, code)
	if err != nil {
		h.logger.WithError(err).WithField("code", code).Error("숏스퀴즈 분석 실패")
		respondError(w, http.StatusInternalServerError, "Failed to analyze stock")
		return
	}

	respondJSON(w, http.StatusOK, score)
}
