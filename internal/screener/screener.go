package screener

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wonny/finboard/internal/contracts"
	"github.com/wonny/finboard/pkg/config"
	"github.com/wonny/finboard/pkg/logger"
	"github.com/wonny/finboard/pkg/redis"
)

// 흑자전환 특별 표기
var lossToProfitRate = decimal.RequireFromString("999.99")

// profitSurgeThreshold: 이익 급증 판정 기준 (%)
var profitSurgeThreshold = decimal.NewFromInt(50)

// Screener runs the fundamentals-based screens over the stock universe
type Screener struct {
	funds contracts.FundamentalRepository
	cache *redis.Cache
	cfg   *config.Config
	log   *logger.Logger
}

// New returns a screener backed by the given fundamentals repository.
// cache may be a disabled cache; results are then recomputed every call.
func New(funds contracts.FundamentalRepository, cache *redis.Cache, cfg *config.Config, log *logger.Logger) *Screener {
	return &Screener{funds: funds, cache: cache, cfg: cfg, log: log}
}

// MagicFormula runs the 마법의 공식 screen.
//
// Candidates need positive operating margin and ROE; 적자 기업 (PER <= 0)
// stay in the universe but take the worst PER rank. minMarketCap of zero
// means no market-cap floor. limit <= 0 returns the full ranking.
func (s *Screener) MagicFormula(ctx context.Context, limit int, minMarketCap decimal.Decimal) ([]contracts.ScreenerResult, error) {
	s.log.WithFields(map[string]interface{}{
		"limit":          limit,
		"min_market_cap": minMarketCap.String(),
	}).Info("마법의 공식 스크리닝 시작")

	var results []contracts.ScreenerResult
	run := func() (interface{}, error) {
		universe, err := s.funds.Universe(ctx)
		if err != nil {
			return nil, fmt.Errorf("유니버스 조회 실패: %w", err)
		}

		candidates := filterMagicFormula(universe, minMarketCap)
		if len(candidates) == 0 {
			s.log.Info("마법의 공식 조건에 맞는 종목이 없습니다")
			return []contracts.ScreenerResult{}, nil
		}

		ranked := rankMagicFormula(candidates)
		return truncate(ranked, limit), nil
	}

	// 시가총액 필터가 있으면 캐시 키가 달라지므로 캐시를 건너뛴다
	if !minMarketCap.IsPositive() {
		key := redis.ScreenerKey(string(contracts.ScreenerMagicFormula), limit)
		if err := s.cache.GetOrSet(ctx, key, &results, redis.TTLMedium, run); err != nil {
			return nil, err
		}
	} else {
		out, err := run()
		if err != nil {
			return nil, err
		}
		results = out.([]contracts.ScreenerResult)
	}

	s.log.WithField("count", len(results)).Info("마법의 공식 스크리닝 완료")
	return results, nil
}

// LowPEG runs the 저PEG 성장주 screen: PER > 0, EPS 성장률이 기준 이상,
// PEG가 상한 이하인 종목을 PEG 오름차순으로 돌려준다.
// Zero maxPEG / minEPSGrowth fall back to the configured defaults.
func (s *Screener) LowPEG(ctx context.Context, maxPEG, minEPSGrowth decimal.Decimal, limit int) ([]contracts.ScreenerResult, error) {
	if !maxPEG.IsPositive() {
		maxPEG = decimal.NewFromFloat(s.cfg.Screener.MaxPEG)
	}
	if !minEPSGrowth.IsPositive() {
		minEPSGrowth = decimal.NewFromFloat(s.cfg.Screener.MinEPSGrowth)
	}

	s.log.WithFields(map[string]interface{}{
		"max_peg":        maxPEG.String(),
		"min_eps_growth": minEPSGrowth.String(),
		"limit":          limit,
	}).Info("PEG 스크리닝 시작")

	universe, err := s.funds.Universe(ctx)
	if err != nil {
		return nil, fmt.Errorf("유니버스 조회 실패: %w", err)
	}

	var results []contracts.ScreenerResult
	for _, f := range universe {
		peg, ok := f.PEG()
		if !ok || peg.GreaterThan(maxPEG) {
			continue
		}
		if !f.EPSGrowth.Valid || f.EPSGrowth.Decimal.LessThan(minEPSGrowth) {
			continue
		}

		r := resultFromSnapshot(f)
		r.PEG = decimal.NewNullDecimal(peg)
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].PEG.Decimal.LessThan(results[j].PEG.Decimal)
	})
	results = truncate(results, limit)
	for i := range results {
		results[i].Position = i + 1
	}

	s.log.WithField("count", len(results)).Info("PEG 스크리닝 완료")
	return results, nil
}

// Turnaround runs the 턴어라운드 screen: 직전 분기 적자에서 흑자로 전환한
// 종목과 흑자 상태에서 순이익이 50% 이상 급증한 종목.
// 흑자전환이 먼저, 그 안에서는 개선률 내림차순.
func (s *Screener) Turnaround(ctx context.Context, limit int) ([]contracts.ScreenerResult, error) {
	s.log.WithField("limit", limit).Info("턴어라운드 스크리닝 시작")

	universe, err := s.funds.Universe(ctx)
	if err != nil {
		return nil, fmt.Errorf("유니버스 조회 실패: %w", err)
	}

	var results []contracts.ScreenerResult
	for _, f := range universe {
		if !f.NetIncome.Valid || !f.PrevNetIncome.Valid {
			continue
		}

		current := f.NetIncome.Decimal
		previous := f.PrevNetIncome.Decimal

		var turnaroundType string
		var changeRate decimal.Decimal

		switch {
		case previous.Sign() < 0 && current.Sign() > 0:
			turnaroundType = contracts.TurnaroundLossToProfit
			changeRate = lossToProfitRate
		case previous.Sign() > 0 && current.GreaterThan(previous):
			changeRate = current.Sub(previous).
				DivRound(previous.Abs(), 4).
				Mul(decimal.NewFromInt(100))
			if changeRate.GreaterThanOrEqual(profitSurgeThreshold) {
				turnaroundType = contracts.TurnaroundProfitGrowth
			}
		}

		if turnaroundType == "" {
			continue
		}

		r := resultFromSnapshot(f)
		r.TurnaroundType = turnaroundType
		r.PreviousNetIncome = decimal.NewNullDecimal(previous)
		r.CurrentNetIncome = decimal.NewNullDecimal(current)
		r.NetIncomeChangeRate = decimal.NewNullDecimal(changeRate)
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		aFlip := a.TurnaroundType == contracts.TurnaroundLossToProfit
		bFlip := b.TurnaroundType == contracts.TurnaroundLossToProfit
		if aFlip != bFlip {
			return aFlip
		}
		return a.NetIncomeChangeRate.Decimal.GreaterThan(b.NetIncomeChangeRate.Decimal)
	})
	results = truncate(results, limit)
	for i := range results {
		results[i].Position = i + 1
	}

	s.log.WithField("count", len(results)).Info("턴어라운드 스크리닝 완료")
	return results, nil
}

// Summary returns the top five of each screen for the dashboard
func (s *Screener) Summary(ctx context.Context) (map[string]interface{}, error) {
	const topN = 5

	magic, err := s.MagicFormula(ctx, topN, decimal.Zero)
	if err != nil {
		return nil, err
	}
	lowPEG, err := s.LowPEG(ctx, decimal.Zero, decimal.Zero, topN)
	if err != nil {
		return nil, err
	}
	turnaround, err := s.Turnaround(ctx, topN)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"magic_formula":       magic,
		"magic_formula_count": len(magic),
		"low_peg":             lowPEG,
		"low_peg_count":       len(lowPEG),
		"turnaround":          turnaround,
		"turnaround_count":    len(turnaround),
	}, nil
}

func filterMagicFormula(universe []contracts.FundamentalSnapshot, minMarketCap decimal.Decimal) []contracts.FundamentalSnapshot {
	var out []contracts.FundamentalSnapshot
	for _, f := range universe {
		if !f.OperatingMargin.Valid || !f.OperatingMargin.Decimal.IsPositive() {
			continue
		}
		if !f.ROE.Valid || !f.ROE.Decimal.IsPositive() {
			continue
		}
		if minMarketCap.IsPositive() {
			if !f.MarketCap.Valid || f.MarketCap.Decimal.LessThan(minMarketCap) {
				continue
			}
		}
		out = append(out, f)
	}
	return out
}

func resultFromSnapshot(f contracts.FundamentalSnapshot) contracts.ScreenerResult {
	return contracts.ScreenerResult{
		Code:            f.Code,
		Name:            f.Name,
		Market:          f.Market,
		Sector:          f.Sector,
		CurrentPrice:    f.CurrentPrice,
		MarketCap:       f.MarketCap,
		PER:             f.PER,
		PBR:             f.PBR,
		ROE:             f.ROE,
		OperatingMargin: f.OperatingMargin,
		NetMargin:       f.NetMargin,
		EPS:             f.EPS,
		EPSGrowth:       f.EPSGrowth,
		RevenueGrowth:   f.RevenueGrowth,
		ProfitGrowth:    f.ProfitGrowth,
	}
}

func truncate(results []contracts.ScreenerResult, limit int) []contracts.ScreenerResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
