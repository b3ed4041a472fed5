package handlers

import (
	"net/http"

	"github.com/wonny/finboard/internal/screener"
	"github.com/wonny/finboard/pkg/config"
	"github.com/wonny/finboard/pkg/logger"
)

// ScreenerHandler handles the fundamentals screening endpoints
// ⭐ SSOT: 스크리너 API 핸들러는 이 구조체에서만
type ScreenerHandler struct {
	screener *screener.Screener
	config   *config.Config
	logger   *logger.Logger
}

// NewScreenerHandler creates a new screener handler
func NewScreenerHandler(s *screener.Screener, cfg *config.Config, log *logger.Logger) *ScreenerHandler {
	return &ScreenerHandler{screener: s, config: cfg, logger: log}
}

// MagicFormula returns the 마법의 공식 ranking
// GET /api/screener/magic-formula?limit=30&min_market_cap=100000000000
func (h *ScreenerHandler) MagicFormula(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := queryInt(r, "limit", h.config.Screener.DefaultLimit)
	minMarketCap := queryDecimal(r, "min_market_cap")

	results, err := h.screener.MagicFormula(ctx, limit, minMarketCap)
	if err != nil {
		h.logger.WithError(err).Error("마법의 공식 스크리닝 실패")
		respondError(w, http.StatusInternalServerError, "Failed to run magic formula screen")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

// LowPEG returns the 저PEG 성장주 ranking
// GET /api/screener/peg?limit=30&max_peg=1.0&min_eps_growth=10
func (h *ScreenerHandler) LowPEG(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := queryInt(r, "limit", h.config.Screener.DefaultLimit)
	maxPEG := queryDecimal(r, "max_peg")
	minEPSGrowth := queryDecimal(r, "min_eps_growth")

	results, err := h.screener.LowPEG(ctx, maxPEG, minEPSGrowth, limit)
	if err != nil {
		h.logger.WithError(err).Error("PEG 스크리닝 실패")
		respondError(w, http.StatusInternalServerError, "Failed to run PEG screen")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

// Turnaround returns the 턴어라운드 ranking
// GET /api/screener/turnaround?limit=30
func (h *ScreenerHandler) Turnaround(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := queryInt(r, "limit", h.config.Screener.DefaultLimit)

	results, err := h.screener.Turnaround(ctx, limit)
	if err != nil {
		h.logger.WithError(err).Error("턴어라운드 스크리닝 실패")
		respondError(w, http.StatusInternalServerError, "Failed to run turnaround screen")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

// Summary returns the top stocks of every screen for the dashboard
// GET /api/screener/summary
func (h *ScreenerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.screener.Summary(ctx)
	if err != nil {
		h.logger.WithError(err).Error("스크리너 요약 조회 실패")
		respondError(w, http.StatusInternalServerError, "Failed to build screener summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
