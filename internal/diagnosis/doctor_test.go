package diagnosis

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finboard/internal/contracts"
	"github.com/wonny/finboard/internal/signal"
	"github.com/wonny/finboard/pkg/logger"
	"github.com/wonny/finboard/pkg/redis"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func series(vals ...string) contracts.PriceSeries {
	prices := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		prices[i] = decimal.RequireFromString(v)
	}
	return contracts.NewPriceSeries(prices)
}

// ---- unit: financial ----

func TestFinancialScoreTiers(t *testing.T) {
	tests := []struct {
		name     string
		margin   string
		roe      string
		debt     string
		expected int
	}{
		{"우량주", "20", "20", "40", 95},     // 50+20+15+10
		{"중간", "8", "12", "80", 75},       // 50+10+10+5
		{"부실", "-5", "-2", "250", 10},     // 50-10-15-15
		{"박한 마진 흑자", "3", "7", "150", 60}, // 50+5+5+0
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fund := contracts.FundamentalSnapshot{
				OperatingMargin: nd(tt.margin),
				ROE:             nd(tt.roe),
				DebtRatio:       nd(tt.debt),
			}
			assert.Equal(t, tt.expected, financialScore(fund, false))
		})
	}
}

func TestFinancialScoreMissingMetrics(t *testing.T) {
	assert.Equal(t, 50, financialScore(contracts.FundamentalSnapshot{}, false))
	assert.Equal(t, 30, financialScore(contracts.FundamentalSnapshot{}, true), "일회성 이익 의심 -20")
}

func TestAnalyzeFinancialHealthOneTimeGain(t *testing.T) {
	// 순이익 180 vs 영업이익 100 → 80% 괴리
	health := analyzeFinancialHealth(contracts.FundamentalSnapshot{
		Code:            "005930",
		OperatingProfit: nd("100"),
		NetIncome:       nd("180"),
	})

	assert.True(t, health.HasOneTimeGainWarning)
	assert.Contains(t, health.OneTimeGainReason, "80.0%")
	assert.Contains(t, health.OneTimeGainReason, "자산매각")
	require.True(t, health.ProfitGap.Valid)
	assert.True(t, health.ProfitGap.Decimal.Equal(dec("80")))
	assert.Equal(t, 30, health.Score, "지표 없이 기본 50에서 -20")
	assert.Equal(t, "주의", health.Assessment)
}

func TestAnalyzeFinancialHealthNetLossWithOperatingProfit(t *testing.T) {
	health := analyzeFinancialHealth(contracts.FundamentalSnapshot{
		Code:            "005930",
		OperatingProfit: nd("100"),
		NetIncome:       nd("-20"),
	})

	assert.True(t, health.HasOneTimeGainWarning)
	assert.Equal(t, "영업이익 흑자, 순이익 적자 (영업외비용 확인 필요)", health.OneTimeGainReason)
}

func TestAnalyzeFinancialHealthCleanProfits(t *testing.T) {
	health := analyzeFinancialHealth(contracts.FundamentalSnapshot{
		Code:            "005930",
		OperatingProfit: nd("100"),
		NetIncome:       nd("110"),
		OperatingMargin: nd("20"),
		ROE:             nd("20"),
		DebtRatio:       nd("40"),
	})

	assert.False(t, health.HasOneTimeGainWarning, "10% 괴리는 정상 범위")
	assert.Equal(t, 95, health.Score)
	assert.Equal(t, "양호", health.Assessment)
}

// ---- unit: supply/demand ----

func TestSupplyDemandScore(t *testing.T) {
	// 쌍끌이 매수 5일+5일 → 50+15+15+15+15=110, 100으로 클램프
	both := contracts.SupplyDemand{
		IsForeignBuying:     true,
		ForeignBuyDays:      5,
		IsInstitutionBuying: true,
		InstitutionBuyDays:  5,
	}
	assert.Equal(t, 100, supplyDemandScore(both))

	// 쌍끌이 매도 → 50-10-10=30
	assert.Equal(t, 30, supplyDemandScore(contracts.SupplyDemand{}))

	// 외국인만 3일 매수 → 50+15+9-10=64
	mixed := contracts.SupplyDemand{
		IsForeignBuying: true,
		ForeignBuyDays:  3,
	}
	assert.Equal(t, 64, supplyDemandScore(mixed))
}

// ---- unit: verdict ----

func TestVerdictFor(t *testing.T) {
	tests := []struct {
		score    int
		warnings int
		expected contracts.VerdictLevel
	}{
		{80, 0, contracts.VerdictStrongBuy},
		{75, 0, contracts.VerdictStrongBuy},
		{74, 0, contracts.VerdictBuy},
		{80, 2, contracts.VerdictBuy}, // 경고 2건 → 60
		{59, 0, contracts.VerdictNeutral},
		{45, 0, contracts.VerdictNeutral},
		{44, 0, contracts.VerdictCaution},
		{30, 0, contracts.VerdictCaution},
		{29, 0, contracts.VerdictAvoid},
		{50, 3, contracts.VerdictAvoid}, // 경고 3건 → 20
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, verdictFor(tt.score, tt.warnings),
			"score=%d warnings=%d", tt.score, tt.warnings)
	}
}

// ---- Doctor ----

type fakeFunds struct {
	snap contracts.FundamentalSnapshot
}

func (f *fakeFunds) Latest(_ context.Context, _ string) (contracts.FundamentalSnapshot, error) {
	return f.snap, nil
}

func (f *fakeFunds) Universe(_ context.Context) ([]contracts.FundamentalSnapshot, error) {
	return []contracts.FundamentalSnapshot{f.snap}, nil
}

type fakeFlows struct {
	flow contracts.FlowSummary
}

func (f *fakeFlows) Summary(_ context.Context, _ string, _ int) (contracts.FlowSummary, error) {
	return f.flow, nil
}

func (f *fakeFlows) ForeignNetTotal(_ context.Context, _ string, _ int) (decimal.Decimal, error) {
	return f.flow.ForeignNet, nil
}

func (f *fakeFlows) ForeignNetTotals(_ context.Context, _ int) (map[string]decimal.Decimal, error) {
	return map[string]decimal.Decimal{f.flow.Code: f.flow.ForeignNet}, nil
}

type fakePrices struct {
	closes contracts.PriceSeries
	bars   contracts.OHLCVSeries
}

func (f *fakePrices) ClosePrices(_ context.Context, _ string, _ int) (contracts.PriceSeries, error) {
	return f.closes, nil
}

func (f *fakePrices) OHLCV(_ context.Context, _ string, _ int) (contracts.OHLCVSeries, error) {
	return f.bars, nil
}

func (f *fakePrices) LatestTradingDate(_ context.Context) (time.Time, error) {
	return time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), nil
}

func newDoctor(fund contracts.FundamentalSnapshot, flow contracts.FlowSummary, closes contracts.PriceSeries) *Doctor {
	return New(
		&fakeFunds{snap: fund},
		&fakeFlows{flow: flow},
		&fakePrices{closes: closes},
		signal.NewComposer(logger.Nop()),
		redis.NewCache(redis.Disabled(), "finboard"),
		logger.Nop(),
	)
}

func TestDiagnoseNoFundamentals(t *testing.T) {
	d := newDoctor(contracts.FundamentalSnapshot{}, contracts.FlowSummary{}, contracts.PriceSeries{})

	result, err := d.Diagnose(context.Background(), "999999")
	require.NoError(t, err)

	assert.Equal(t, "999999", result.Code)
	assert.Equal(t, "분석 불가", result.Verdict)
	assert.Equal(t, contracts.VerdictNeutral, result.VerdictLevel)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "재무 데이터가 없습니다")
}

func TestDiagnoseHealthyStock(t *testing.T) {
	fund := contracts.FundamentalSnapshot{
		Code:            "005930",
		Name:            "삼성전자",
		Market:          "KOSPI",
		CurrentPrice:    dec("164"),
		OperatingProfit: nd("100"),
		NetIncome:       nd("110"),
		OperatingMargin: nd("20"),
		ROE:             nd("20"),
		DebtRatio:       nd("40"),
	}
	flow := contracts.FlowSummary{
		Code:               "005930",
		Days:               5,
		ForeignNet:         dec("100"),
		ForeignBuyDays:     4,
		InstitutionNet:     dec("50"),
		InstitutionBuyDays: 3,
	}

	// 65거래일 연속 상승
	vals := make([]string, 65)
	for i := range vals {
		vals[i] = decimal.NewFromInt(int64(164 - i)).String()
	}

	d := newDoctor(fund, flow, series(vals...))

	result, err := d.Diagnose(context.Background(), "005930")
	require.NoError(t, err)

	assert.Equal(t, "삼성전자", result.Name)
	assert.Equal(t, 95, result.FinancialHealth.Score)
	assert.Equal(t, "양호", result.FinancialHealth.Assessment)

	// 50 + 15+12(외국인) + 15+9(기관) = 101 → 100
	assert.Equal(t, 100, result.SupplyDemand.Score)
	assert.Equal(t, "매수 우위", result.SupplyDemand.Assessment)
	assert.True(t, result.SupplyDemand.IsBothBuying)

	// 매수 신호 강도 85, 볼린저 가감 없음
	assert.Equal(t, 85, result.TechnicalAnalysis.Score)
	assert.Equal(t, "매수 신호", result.TechnicalAnalysis.Assessment)
	assert.True(t, result.TechnicalAnalysis.IsRSIOverbought)
	assert.Contains(t, result.TechnicalAnalysis.SignalDescription, "정배열")

	// round(95*0.30 + 100*0.35 + 85*0.35) = 93
	assert.Equal(t, 93, result.OverallScore)

	// RSI 과열 경고 1건 → 83점, 그래도 최상위 등급
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "RSI 과열")
	assert.Equal(t, contracts.VerdictStrongBuy, result.VerdictLevel)
	assert.Equal(t, "매수 적기", result.Verdict)

	assert.Contains(t, result.Positives, "외국인+기관 동반 매수 중")
	assert.Contains(t, result.Positives, "이평선 정배열 (상승 추세)")
}

func TestDiagnoseInsufficientPriceData(t *testing.T) {
	fund := contracts.FundamentalSnapshot{
		Code:            "123456",
		Name:            "신규상장",
		OperatingMargin: nd("6"),
	}

	d := newDoctor(fund, contracts.FlowSummary{}, series("100", "101", "102"))

	result, err := d.Diagnose(context.Background(), "123456")
	require.NoError(t, err)

	assert.Equal(t, 50, result.TechnicalAnalysis.Score)
	assert.Equal(t, "데이터 부족", result.TechnicalAnalysis.Assessment)

	// 재무 60, 수급 30, 기술 50 → round(18+10.5+17.5) = 46
	assert.Equal(t, 46, result.OverallScore)
	assert.Equal(t, contracts.VerdictNeutral, result.VerdictLevel)
}
