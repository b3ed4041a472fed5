// Package diagnosis runs the full double-check analysis for one stock:
// 재무 건전성, 수급 현황, 기술적 분석을 합쳐 종합 의견을 낸다.
package diagnosis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/finboard/internal/contracts"
	"github.com/wonny/finboard/internal/signal"
	"github.com/wonny/finboard/pkg/logger"
	"github.com/wonny/finboard/pkg/redis"
)

const (
	supplyDemandDays = 5
	priceDataDays    = 120
)

// 순이익이 영업이익 대비 이 비율(%) 이상 높으면 일회성 이익 의심
var oneTimeGainThreshold = decimal.NewFromInt(50)

// Doctor produces stock diagnoses
type Doctor struct {
	funds    contracts.FundamentalRepository
	flows    contracts.FlowRepository
	prices   contracts.PriceRepository
	composer *signal.Composer
	cache    *redis.Cache
	log      *logger.Logger

	now func() time.Time
}

// New returns a diagnosis doctor
func New(funds contracts.FundamentalRepository, flows contracts.FlowRepository,
	prices contracts.PriceRepository, composer *signal.Composer,
	cache *redis.Cache, log *logger.Logger) *Doctor {
	return &Doctor{
		funds:    funds,
		flows:    flows,
		prices:   prices,
		composer: composer,
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
}

// Diagnose runs the full three-leg analysis for one stock.
// Results are cached briefly; 재무 데이터가 없으면 중립 결과를 돌려준다.
func (d *Doctor) Diagnose(ctx context.Context, code string) (contracts.DiagnosisResult, error) {
	d.log.WithField("code", code).Info("종목 상세 진단 시작")

	var result contracts.DiagnosisResult
	err := d.cache.GetOrSet(ctx, redis.DiagnosisKey(code), &result, redis.TTLMedium, func() (interface{}, error) {
		return d.diagnose(ctx, code)
	})
	return result, err
}

func (d *Doctor) diagnose(ctx context.Context, code string) (contracts.DiagnosisResult, error) {
	fund, err := d.funds.Latest(ctx, code)
	if err != nil {
		return contracts.DiagnosisResult{}, fmt.Errorf("재무 데이터 조회 실패: %w", err)
	}
	if fund.Code == "" {
		d.log.WithField("code", code).Warn("재무 데이터가 없습니다")
		return d.emptyDiagnosis(code), nil
	}

	financial := analyzeFinancialHealth(fund)
	supply, err := d.analyzeSupplyDemand(ctx, code)
	if err != nil {
		return contracts.DiagnosisResult{}, err
	}
	technical, err := d.analyzeTechnical(ctx, code)
	if err != nil {
		return contracts.DiagnosisResult{}, err
	}

	warnings := collectWarnings(financial, supply, technical)
	positives := collectPositives(financial, supply, technical)

	// 가중 평균: 재무 30%, 수급 35%, 기술적 35%
	overall := int(math.Round(
		float64(financial.Score)*0.30 +
			float64(supply.Score)*0.35 +
			float64(technical.Score)*0.35))

	level := verdictFor(overall, len(warnings))

	d.log.WithFields(map[string]interface{}{
		"code":    code,
		"score":   overall,
		"verdict": level.String(),
	}).Info("종목 상세 진단 완료")

	return contracts.DiagnosisResult{
		Code:              code,
		Name:              fund.Name,
		Market:            fund.Market,
		CurrentPrice:      fund.CurrentPrice,
		DiagnosisDate:     d.now(),
		FinancialHealth:   financial,
		SupplyDemand:      supply,
		TechnicalAnalysis: technical,
		Verdict:           level.Label(),
		VerdictLevel:      level,
		OverallScore:      overall,
		Warnings:          warnings,
		Positives:         positives,
	}, nil
}

// analyzeFinancialHealth checks 영업이익 vs 당기순이익 and the core ratios
func analyzeFinancialHealth(fund contracts.FundamentalSnapshot) contracts.FinancialHealth {
	health := contracts.FinancialHealth{
		OperatingProfit: fund.OperatingProfit,
		NetIncome:       fund.NetIncome,
		OperatingMargin: fund.OperatingMargin,
		NetMargin:       fund.NetMargin,
		ROE:             fund.ROE,
		DebtRatio:       fund.DebtRatio,
	}

	if fund.OperatingProfit.Valid && fund.NetIncome.Valid && !fund.OperatingProfit.Decimal.IsZero() {
		op := fund.OperatingProfit.Decimal
		net := fund.NetIncome.Decimal

		gap := net.Sub(op)
		gapRatio := gap.DivRound(op.Abs(), 4).Mul(decimal.NewFromInt(100))
		health.ProfitGap = decimal.NewNullDecimal(gap)
		health.ProfitGapRatio = decimal.NewNullDecimal(gapRatio)

		switch {
		case gapRatio.GreaterThan(oneTimeGainThreshold):
			// 순이익이 영업이익보다 50% 이상 많으면 일회성 이익 의심
			health.HasOneTimeGainWarning = true
			health.OneTimeGainReason = fmt.Sprintf(
				"순이익이 영업이익 대비 %s%% 높음 (자산매각, 환차익 등 확인 필요)",
				gapRatio.Round(1).StringFixed(1))
		case op.Sign() > 0 && net.Sign() < 0:
			health.HasOneTimeGainWarning = true
			health.OneTimeGainReason = "영업이익 흑자, 순이익 적자 (영업외비용 확인 필요)"
		}
	}

	health.Score = financialScore(fund, health.HasOneTimeGainWarning)
	switch {
	case health.Score >= 70:
		health.Assessment = "양호"
	case health.Score >= 40:
		health.Assessment = "보통"
	default:
		health.Assessment = "주의"
	}
	return health
}

// financialScore: 기본 50점에 영업이익률/ROE/부채비율 가감
func financialScore(fund contracts.FundamentalSnapshot, oneTimeGainWarning bool) int {
	score := 50

	if fund.OperatingMargin.Valid {
		m := fund.OperatingMargin.Decimal
		switch {
		case m.GreaterThan(decimal.NewFromInt(15)):
			score += 20
		case m.GreaterThan(decimal.NewFromInt(10)):
			score += 15
		case m.GreaterThan(decimal.NewFromInt(5)):
			score += 10
		case m.IsPositive():
			score += 5
		default:
			score -= 10
		}
	}

	if fund.ROE.Valid {
		r := fund.ROE.Decimal
		switch {
		case r.GreaterThan(decimal.NewFromInt(15)):
			score += 15
		case r.GreaterThan(decimal.NewFromInt(10)):
			score += 10
		case r.GreaterThan(decimal.NewFromInt(5)):
			score += 5
		case r.Sign() < 0:
			score -= 15
		}
	}

	if fund.DebtRatio.Valid {
		dr := fund.DebtRatio.Decimal
		switch {
		case dr.LessThan(decimal.NewFromInt(50)):
			score += 10
		case dr.LessThan(decimal.NewFromInt(100)):
			score += 5
		case dr.GreaterThan(decimal.NewFromInt(200)):
			score -= 15
		}
	}

	if oneTimeGainWarning {
		score -= 20
	}

	return clampScore(score)
}

// analyzeSupplyDemand aggregates 최근 5일 외국인/기관 순매수
func (d *Doctor) analyzeSupplyDemand(ctx context.Context, code string) (contracts.SupplyDemand, error) {
	flow, err := d.flows.Summary(ctx, code, supplyDemandDays)
	if err != nil {
		return contracts.SupplyDemand{}, fmt.Errorf("수급 데이터 조회 실패: %w", err)
	}

	isForeignBuying := flow.ForeignNet.IsPositive()
	isInstitutionBuying := flow.InstitutionNet.IsPositive()
	isBothBuying := isForeignBuying && isInstitutionBuying
	isBothSelling := !isForeignBuying && !isInstitutionBuying &&
		(flow.ForeignNet.Sign() < 0 || flow.InstitutionNet.Sign() < 0)

	sd := contracts.SupplyDemand{
		ForeignNet5Days:     flow.ForeignNet,
		ForeignBuyDays:      flow.ForeignBuyDays,
		IsForeignBuying:     isForeignBuying,
		InstitutionNet5Days: flow.InstitutionNet,
		InstitutionBuyDays:  flow.InstitutionBuyDays,
		IsInstitutionBuying: isInstitutionBuying,
		IsBothBuying:        isBothBuying,
		IsBothSelling:       isBothSelling,
	}

	sd.Score = supplyDemandScore(sd)
	switch {
	case isBothBuying:
		sd.Assessment = "매수 우위"
	case isBothSelling:
		sd.Assessment = "매도 우위"
	default:
		sd.Assessment = "혼조"
	}
	return sd, nil
}

// supplyDemandScore: 기본 50점, 주체별 순매수 +15에 매수일수 ×3 보너스
func supplyDemandScore(sd contracts.SupplyDemand) int {
	score := 50

	if sd.IsForeignBuying {
		score += 15 + sd.ForeignBuyDays*3
	} else {
		score -= 10
	}

	if sd.IsInstitutionBuying {
		score += 15 + sd.InstitutionBuyDays*3
	} else {
		score -= 10
	}

	return clampScore(score)
}

// analyzeTechnical builds the chart leg from 120일 가격 이력
func (d *Doctor) analyzeTechnical(ctx context.Context, code string) (contracts.TechnicalAnalysis, error) {
	closes, err := d.prices.ClosePrices(ctx, code, priceDataDays)
	if err != nil {
		return contracts.TechnicalAnalysis{}, fmt.Errorf("가격 데이터 조회 실패: %w", err)
	}

	if closes.Len() < 20 {
		d.log.WithFields(map[string]interface{}{
			"code":  code,
			"count": closes.Len(),
		}).Warn("가격 데이터 부족")
		return contracts.TechnicalAnalysis{
			Score:      50,
			Assessment: "데이터 부족",
		}, nil
	}

	// OHLCV는 MFI 계산용, 없어도 진행한다
	bars, err := d.prices.OHLCV(ctx, code, priceDataDays)
	if err != nil {
		d.log.WithError(err).WithField("code", code).Debug("OHLCV 조회 실패, MFI 생략")
		bars = contracts.OHLCVSeries{}
	}

	snap := d.composer.Compose(code, d.now().Format("2006-01-02"), closes, bars)

	ta := contracts.TechnicalAnalysis{
		IsArrangedUp:      snap.IsArrangedUp,
		IsAboveMA20:       snap.IsAboveMA20,
		IsAboveMA60:       snap.IsAboveMA60,
		IsGoldenCross:     snap.IsGoldenCross,
		IsDeadCross:       snap.IsDeadCross,
		RSI14:             snap.RSI14,
		RSIStatus:         rsiStatusLabel(snap.RSIZone),
		Bollinger:         snap.Bollinger,
		OverallSignal:     snap.OverallSignal,
		SignalDescription: enhancedDescription(snap),
	}
	if snap.RSI14.Valid {
		ta.IsRSIOversold = snap.RSI14.Decimal.LessThanOrEqual(decimal.NewFromInt(30))
		ta.IsRSIOverbought = snap.RSI14.Decimal.GreaterThanOrEqual(decimal.NewFromInt(70))
	}
	if snap.MoneyFlow != nil {
		ta.MFIScore = decimal.NewNullDecimal(snap.MoneyFlow.Value)
		ta.MFIStatus = mfiStatusLabel(snap.MoneyFlow.Zone)
	}

	ta.Score = technicalScore(snap)
	ta.BuySignalStrength = ta.Score
	switch {
	case ta.Score >= 60:
		ta.Assessment = "매수 신호"
	case ta.Score <= 40:
		ta.Assessment = "매도 신호"
	default:
		ta.Assessment = "중립"
	}
	return ta, nil
}

// technicalScore: 매수 신호 강도에 볼린저/MFI 가감
//   - BB 스퀴즈 +5 (에너지 응축), 상단 돌파 +10
//   - MFI 20 이하 +10 (매수 기회), 80 이상 -5 (과열)
func technicalScore(snap contracts.IndicatorSnapshot) int {
	score := snap.BuySignalStrength

	if snap.Bollinger != nil {
		if snap.Bollinger.IsSqueeze {
			score += 5
		}
		if snap.Bollinger.IsBreakout {
			score += 10
		}
	}

	if snap.MoneyFlow != nil {
		mfi := snap.MoneyFlow.Value
		if mfi.LessThanOrEqual(decimal.NewFromInt(20)) {
			score += 10
		} else if mfi.GreaterThanOrEqual(decimal.NewFromInt(80)) {
			score -= 5
		}
	}

	return clampScore(score)
}

// enhancedDescription joins every notable signal including BB/MFI
func enhancedDescription(snap contracts.IndicatorSnapshot) string {
	var signals []string

	if boolVal(snap.IsGoldenCross) {
		signals = append(signals, "골든크로스")
	}
	if boolVal(snap.IsDeadCross) {
		signals = append(signals, "데드크로스")
	}
	if boolVal(snap.IsArrangedUp) {
		signals = append(signals, "정배열")
	}
	if boolVal(snap.IsArrangedDown) {
		signals = append(signals, "역배열")
	}

	if snap.RSI14.Valid {
		rsi := snap.RSI14.Decimal
		if rsi.GreaterThanOrEqual(decimal.NewFromInt(70)) {
			signals = append(signals, "RSI 과열")
		} else if rsi.LessThanOrEqual(decimal.NewFromInt(30)) {
			signals = append(signals, "RSI 침체")
		}
	}

	if snap.Bollinger != nil {
		if snap.Bollinger.IsSqueeze {
			signals = append(signals, "BB 스퀴즈(폭발 대기)")
		}
		if snap.Bollinger.IsBreakout {
			signals = append(signals, "BB 상단 돌파")
		}
	}

	if snap.MoneyFlow != nil {
		switch snap.MoneyFlow.Zone {
		case contracts.ZoneOverbought:
			signals = append(signals, "MFI 과열")
		case contracts.ZoneOversold:
			signals = append(signals, "MFI 침체(거래량↑매수)")
		}
	}

	if len(signals) == 0 {
		return "특이 신호 없음"
	}

	out := signals[0]
	for _, s := range signals[1:] {
		out += " / " + s
	}
	return out
}

func rsiStatusLabel(zone contracts.RSIZone) string {
	switch zone {
	case contracts.ZoneOverbought:
		return "과열"
	case contracts.ZoneOversold:
		return "침체"
	case contracts.ZoneNeutral:
		return "중립"
	default:
		return "알 수 없음"
	}
}

func mfiStatusLabel(zone contracts.RSIZone) string {
	switch zone {
	case contracts.ZoneOverbought:
		return "과열"
	case contracts.ZoneOversold:
		return "침체"
	default:
		return "중립"
	}
}

func collectWarnings(f contracts.FinancialHealth, s contracts.SupplyDemand, t contracts.TechnicalAnalysis) []string {
	var warnings []string
	if f.HasOneTimeGainWarning {
		warnings = append(warnings, "일회성 이익 의심: "+f.OneTimeGainReason)
	}
	if s.IsBothSelling {
		warnings = append(warnings, "외국인+기관 동반 매도 중")
	}
	if t.IsRSIOverbought {
		warnings = append(warnings, "RSI 과열 구간 (단기 조정 가능성)")
	}
	if boolVal(t.IsDeadCross) {
		warnings = append(warnings, "데드크로스 발생")
	}
	return warnings
}

func collectPositives(f contracts.FinancialHealth, s contracts.SupplyDemand, t contracts.TechnicalAnalysis) []string {
	var positives []string
	if f.OperatingMargin.Valid && f.OperatingMargin.Decimal.GreaterThan(decimal.NewFromInt(10)) {
		positives = append(positives, "영업이익률 "+f.OperatingMargin.Decimal.String()+"% (양호)")
	}
	if s.IsBothBuying {
		positives = append(positives, "외국인+기관 동반 매수 중")
	}
	if boolVal(t.IsArrangedUp) {
		positives = append(positives, "이평선 정배열 (상승 추세)")
	}
	if boolVal(t.IsGoldenCross) {
		positives = append(positives, "골든크로스 발생")
	}
	if t.IsRSIOversold {
		positives = append(positives, "RSI 침체 구간 (반등 기회)")
	}
	return positives
}

// verdictFor levels the overall score down by 10 per warning before
// mapping to the five-step verdict
func verdictFor(overallScore, warningCount int) contracts.VerdictLevel {
	adjusted := overallScore - warningCount*10

	switch {
	case adjusted >= 75:
		return contracts.VerdictStrongBuy
	case adjusted >= 60:
		return contracts.VerdictBuy
	case adjusted >= 45:
		return contracts.VerdictNeutral
	case adjusted >= 30:
		return contracts.VerdictCaution
	default:
		return contracts.VerdictAvoid
	}
}

func (d *Doctor) emptyDiagnosis(code string) contracts.DiagnosisResult {
	return contracts.DiagnosisResult{
		Code:          code,
		DiagnosisDate: d.now(),
		Verdict:       "분석 불가",
		VerdictLevel:  contracts.VerdictNeutral,
		Warnings:      []string{"재무 데이터가 없습니다. 먼저 데이터를 수집해주세요."},
		Positives:     []string{},
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func boolVal(b *bool) bool {
	return b != nil && *b
}
