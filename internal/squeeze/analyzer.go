package squeeze

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/finboard/internal/contracts"
	"github.com/wonny/finboard/internal/signal"
	"github.com/wonny/finboard/pkg/config"
	"github.com/wonny/finboard/pkg/logger"
	"github.com/wonny/finboard/pkg/redis"
)

// Analyzer finds short-squeeze candidates from loan-balance history
type Analyzer struct {
	shorts   contracts.ShortDataRepository
	flows    contracts.FlowRepository
	composer *signal.Composer
	cache    *redis.Cache
	cfg      *config.Config
	log      *logger.Logger

	now func() time.Time
}

// New returns a squeeze analyzer
func New(shorts contracts.ShortDataRepository, flows contracts.FlowRepository,
	composer *signal.Composer, cache *redis.Cache, cfg *config.Config, log *logger.Logger) *Analyzer {
	return &Analyzer{
		shorts:   shorts,
		flows:    flows,
		composer: composer,
		cache:    cache,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Candidates scans every stock with loan-balance data and returns those
// scoring at least the configured minimum, 점수 내림차순.
// The full scan result is cached per trading date; limit is applied after.
func (a *Analyzer) Candidates(ctx context.Context, limit int) ([]contracts.SqueezeScore, error) {
	a.log.WithField("limit", limit).Info("숏스퀴즈 후보 종목 분석 시작")

	today := a.now()

	var candidates []contracts.SqueezeScore
	key := redis.SqueezeKey(today.Format("2006-01-02"))
	err := a.cache.GetOrSet(ctx, key, &candidates, redis.TTLMedium, func() (interface{}, error) {
		return a.scan(ctx, today)
	})
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	a.log.WithField("count", len(candidates)).Info("숏스퀴즈 후보 종목 분석 완료")
	return candidates, nil
}

// Analyze scores a single stock
func (a *Analyzer) Analyze(ctx context.Context, code string) (contracts.SqueezeScore, error) {
	history, err := a.shorts.LoanHistory(ctx, code, analysisDays*queryDaysPadding)
	if err != nil {
		return contracts.SqueezeScore{}, fmt.Errorf("대차잔고 조회 실패: %w", err)
	}

	foreignNet, err := a.flows.ForeignNetTotal(ctx, code, foreignBuyDays)
	if err != nil {
		return contracts.SqueezeScore{}, fmt.Errorf("외국인 수급 조회 실패: %w", err)
	}

	result := a.analyzeStock(code, history, foreignNet)
	if result == nil {
		return contracts.SqueezeScore{}, fmt.Errorf("종목 %s: 분석에 필요한 데이터 부족", code)
	}
	return *result, nil
}

func (a *Analyzer) scan(ctx context.Context, today time.Time) ([]contracts.SqueezeScore, error) {
	// 주말/공휴일 고려하여 넉넉하게 조회
	since := today.AddDate(0, 0, -analysisDays*queryDaysPadding)

	history, err := a.shorts.RecentHistory(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("대차잔고 조회 실패: %w", err)
	}
	if len(history) == 0 {
		a.log.Info("공매도 데이터가 없습니다")
		return []contracts.SqueezeScore{}, nil
	}

	foreignMap, err := a.flows.ForeignNetTotals(ctx, foreignBuyDays)
	if err != nil {
		return nil, fmt.Errorf("외국인 수급 조회 실패: %w", err)
	}

	codes := make([]string, 0, len(history))
	for code := range history {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	minScore := a.cfg.Screener.MinSqueezeScore
	var candidates []contracts.SqueezeScore
	for _, code := range codes {
		candidate := a.analyzeStock(code, history[code], foreignMap[code])
		if candidate != nil && candidate.TotalScore >= minScore {
			candidates = append(candidates, *candidate)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TotalScore > candidates[j].TotalScore
	})

	return candidates, nil
}

// analyzeStock scores one stock from its newest-first loan history.
// Returns nil when the history cannot support the analysis.
func (a *Analyzer) analyzeStock(code string, history []contracts.ShortPosition, foreignNet decimal.Decimal) *contracts.SqueezeScore {
	if len(history) < coveringDays {
		return nil
	}

	latest := history[0]

	avgLoan := averageOf(history, analysisDays, loanBalance)
	if !latest.LoanBalance.Valid || avgLoan.IsZero() {
		return nil
	}
	currentLoan := latest.LoanBalance.Decimal

	loanChange := changeRateOf(history, coveringDays, loanBalance)
	isShortCovering := loanChange.Valid && loanChange.Decimal.Sign() < 0

	isForeignBuying := foreignNet.IsPositive()

	ma20 := averageOf(history, analysisDays, closePrice)
	priceChange := changeRateOf(history, coveringDays, closePrice)
	isAboveMA20 := latest.ClosePrice.Valid && ma20.IsPositive() &&
		latest.ClosePrice.Decimal.GreaterThan(ma20)
	isPriceRising := priceChange.Valid && priceChange.Decimal.GreaterThanOrEqual(priceRiseThreshold)
	isTrendReversal := isAboveMA20 || isPriceRising

	sub := score(scoreInputs{
		currentLoan:     currentLoan,
		avgLoan:         avgLoan,
		loanChange:      loanChange,
		isShortCovering: isShortCovering,
		foreignNetBuy:   foreignNet,
		isForeignBuying: isForeignBuying,
		isTrendReversal: isTrendReversal,
		isPriceRising:   isPriceRising,
	})

	result := &contracts.SqueezeScore{
		Code:                code,
		Name:                latest.Name,
		ChangeRate:          latest.ChangeRate,
		PriceChange5D:       priceChange,
		LoanBalance:         currentLoan,
		LoanBalanceAvg20:    avgLoan,
		LoanBalanceRatio:    latest.LoanBalanceRatio,
		LoanBalanceChange5D: loanChange,
		ForeignNetBuy3D:     foreignNet,
		IsForeignBuying:     isForeignBuying,
		IsPriceRising:       isPriceRising,
		IsShortsCovering:    isShortCovering,
		IsTrendReversal:     isTrendReversal,
		OverheatScore:       sub.overheat,
		CoveringScore:       sub.covering,
		ForeignScore:        sub.foreign,
		TrendScore:          sub.trend,
		TotalScore:          sub.total,
		Tier:                contracts.TierForScore(sub.total),
		AnalysisDate:        latest.Date,
	}
	if latest.ClosePrice.Valid {
		result.CurrentPrice = latest.ClosePrice.Decimal
	}

	// 종가 시계열로 기술적 지표를 덧입힌다 (최소 5일)
	closes := validCloses(history)
	if len(closes) >= 5 {
		snap := a.composer.Compose(code, latest.Date.Format("2006-01-02"),
			contracts.NewPriceSeries(closes), contracts.OHLCVSeries{})
		result.Technical = &snap

		// 추세 전환 재판정: 20일선 돌파 또는 골든크로스
		if boolVal(snap.IsGoldenCross) || boolVal(snap.IsAboveMA20) {
			result.IsTrendReversal = true
		}
	}

	result.Description = describe(result)
	return result
}

// describe builds the Korean signal description for a scored stock
func describe(s *contracts.SqueezeScore) string {
	var desc string
	switch s.Tier {
	case contracts.TierCritical:
		desc = "숏스퀴즈 임박! 대차잔고 급감 + 외국인 매수 + 주가 상승"
	case contracts.TierHigh:
		desc = "숏커버링 진행 중. 추가 상승 가능성 높음"
	case contracts.TierMedium:
		desc = "숏커버링 초기 신호. 관찰 필요"
	default:
		desc = "숏커버링 가능성 낮음"
	}

	if t := s.Technical; t != nil {
		if boolVal(t.IsGoldenCross) {
			desc += " + 골든크로스"
		}
		if boolVal(t.IsArrangedUp) {
			desc += " + 정배열"
		}
		if t.RSIZone == contracts.ZoneOversold {
			desc += " + RSI 침체(반등 가능)"
		}
	}
	return desc
}

// averageOf averages the chosen field over the most recent days readings.
// Null readings are skipped in the sum but the divisor stays min(days, len),
// matching the persisted average the rest of the pipeline expects.
func averageOf(history []contracts.ShortPosition, days int, field func(contracts.ShortPosition) decimal.NullDecimal) decimal.Decimal {
	n := days
	if len(history) < n {
		n = len(history)
	}

	sum := decimal.Zero
	for i := 0; i < n; i++ {
		if v := field(history[i]); v.Valid {
			sum = sum.Add(v.Decimal)
		}
	}
	return sum.DivRound(decimal.NewFromInt(int64(n)), 2)
}

// changeRateOf computes the % change of the chosen field between the most
// recent reading and the one days-1 sessions back
func changeRateOf(history []contracts.ShortPosition, days int, field func(contracts.ShortPosition) decimal.NullDecimal) decimal.NullDecimal {
	if len(history) < days {
		return decimal.NullDecimal{}
	}

	current := field(history[0])
	previous := field(history[days-1])
	if !current.Valid || !previous.Valid || previous.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}

	rate := current.Decimal.Sub(previous.Decimal).
		DivRound(previous.Decimal, 4).
		Mul(hundred)
	return decimal.NewNullDecimal(rate)
}

func loanBalance(p contracts.ShortPosition) decimal.NullDecimal { return p.LoanBalance }
func closePrice(p contracts.ShortPosition) decimal.NullDecimal  { return p.ClosePrice }

func validCloses(history []contracts.ShortPosition) []decimal.Decimal {
	var closes []decimal.Decimal
	for _, p := range history {
		if p.ClosePrice.Valid {
			closes = append(closes, p.ClosePrice.Decimal)
		}
	}
	return closes
}

func boolVal(b *bool) bool {
	return b != nil && *b
}
