package handlers

import (
	"net/http"

	"github.com/wonny/finboard/internal/contracts"
	"github.com/wonny/finboard/internal/signal"
	"github.com/wonny/finboard/pkg/logger"
	"github.com/wonny/finboard/pkg/redis"
)

// indicatorLookbackDays covers the longest indicator window (MA120) plus slack
const indicatorLookbackDays = 150

// IndicatorHandler serves computed technical indicator snapshots
type IndicatorHandler struct {
	prices   contracts.PriceRepository
	composer *signal.Composer
	cache    *redis.Cache
	logger   *logger.Logger
}

// NewIndicatorHandler creates a new indicator handler
func NewIndicatorHandler(prices contracts.PriceRepository, composer *signal.Composer,
	cache *redis.Cache, log *logger.Logger) *IndicatorHandler {
	return &IndicatorHandler{prices: prices, composer: composer, cache: cache, logger: log}
}

// Snapshot computes the indicator snapshot for one stock as of the latest
// trading date. The snapshot is cached per stock and date.
// GET /api/indicators/{code}
func (h *IndicatorHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code, ok := pathCode(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid stock code (expected 6 digits)")
		return
	}

	latest, err := h.prices.LatestTradingDate(ctx)
	if err != nil {
		h.logger.WithError(err).Error("최근 거래일 조회 실패")
		respondError(w, http.StatusInternalServerError, "Failed to resolve latest trading date")
		return
	}
	date := latest.Format("2006-01-02")

	var snapshot contracts.IndicatorSnapshot
	key := redis.IndicatorKey(code, date)
	err = h.cache.GetOrSet(ctx, key, &snapshot, redis.TTLMedium, func() (interface{}, error) {
		closes, err := h.prices.ClosePrices(ctx, code, indicatorLookbackDays)
		if err != nil {
			return nil, err
		}
		bars, err := h.prices.OHLCV(ctx, code, indicatorLookbackDays)
		if err != nil {
			return nil, err
		}
		return h.composer.Compose(code, date, closes, bars), nil
	})
	if err != nil {
		h.logger.WithError(err).WithField("code", code).Error("지표 계산 실패")
		respondError(w, http.StatusInternalServerError, "Failed to compute indicators")
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}
