package screener

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finboard/internal/contracts"
	"github.com/wonny/finboard/pkg/config"
	"github.com/wonny/finboard/pkg/logger"
	"github.com/wonny/finboard/pkg/redis"
)

type fakeFunds struct {
	universe []contracts.FundamentalSnapshot
}

func (f *fakeFunds) Latest(_ context.Context, code string) (contracts.FundamentalSnapshot, error) {
	for _, s := range f.universe {
		if s.Code == code {
			return s, nil
		}
	}
	return contracts.FundamentalSnapshot{}, nil
}

func (f *fakeFunds) Universe(_ context.Context) ([]contracts.FundamentalSnapshot, error) {
	return f.universe, nil
}

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newScreener(universe []contracts.FundamentalSnapshot) *Screener {
	cfg := &config.Config{}
	cfg.Screener.DefaultLimit = 30
	cfg.Screener.MaxPEG = 1.0
	cfg.Screener.MinEPSGrowth = 10.0

	cache := redis.NewCache(redis.Disabled(), "finboard")
	return New(&fakeFunds{universe: universe}, cache, cfg, logger.Nop())
}

func fundamental(code, margin, roe, per string) contracts.FundamentalSnapshot {
	return contracts.FundamentalSnapshot{
		Code:            code,
		Name:            code,
		OperatingMargin: nd(margin),
		ROE:             nd(roe),
		PER:             nd(per),
	}
}

func TestMagicFormulaRankSum(t *testing.T) {
	universe := []contracts.FundamentalSnapshot{
		fundamental("A", "20", "15", "8"),
		fundamental("B", "10", "25", "5"),
		fundamental("C", "5", "5", "20"),
	}

	results, err := newScreener(universe).MagicFormula(context.Background(), 0, decimal.Zero)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// 마진 순위 A=1 B=2 C=3 / ROE 순위 B=1 A=2 C=3 / PER 순위 B=1 A=2 C=3
	// 합산 A=5 B=4 C=9 → 최종 순서 B, A, C
	assert.Equal(t, "B", results[0].Code)
	assert.Equal(t, "A", results[1].Code)
	assert.Equal(t, "C", results[2].Code)

	assert.Equal(t, 4, results[0].Score)
	assert.Equal(t, 5, results[1].Score)
	assert.Equal(t, 9, results[2].Score)

	b := results[0]
	assert.Equal(t, b.Score, b.MarginRank+b.ROERank+b.PERRank,
		"합산 점수는 개별 순위의 합이어야 한다")
	assert.Equal(t, 1, results[0].Position)
	assert.Equal(t, 3, results[2].Position)
}

func TestMagicFormulaMissingPERWorstRank(t *testing.T) {
	noPER := fundamental("D", "30", "30", "0")
	noPER.PER = decimal.NullDecimal{}

	universe := []contracts.FundamentalSnapshot{
		fundamental("A", "20", "15", "8"),
		fundamental("B", "10", "25", "5"),
		noPER,
	}

	results, err := newScreener(universe).MagicFormula(context.Background(), 0, decimal.Zero)
	require.NoError(t, err)
	require.Len(t, results, 3)

	var d contracts.ScreenerResult
	for _, r := range results {
		if r.Code == "D" {
			d = r
		}
	}
	// PER가 없으면 유니버스 크기만큼 최악 순위를 받는다
	assert.Equal(t, 3, d.PERRank)
	assert.Equal(t, 1, d.MarginRank)
	assert.Equal(t, 1, d.ROERank)
	assert.Equal(t, 5, d.Score)
}

func TestMagicFormulaLimitAfterFullRank(t *testing.T) {
	universe := []contracts.FundamentalSnapshot{
		fundamental("A", "20", "15", "8"),
		fundamental("B", "10", "25", "5"),
		fundamental("C", "5", "5", "20"),
	}

	results, err := newScreener(universe).MagicFormula(context.Background(), 1, decimal.Zero)
	require.NoError(t, err)
	require.Len(t, results, 1)

	// limit은 전체 랭킹 후에 적용: 점수는 3종목 유니버스 기준
	assert.Equal(t, "B", results[0].Code)
	assert.Equal(t, 4, results[0].Score)
}

func TestMagicFormulaExcludesNonPositiveMarginAndROE(t *testing.T) {
	universe := []contracts.FundamentalSnapshot{
		fundamental("A", "20", "15", "8"),
		fundamental("LOSS", "-3", "15", "8"),
		fundamental("NOROE", "20", "0", "8"),
	}

	results, err := newScreener(universe).MagicFormula(context.Background(), 0, decimal.Zero)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "A", results[0].Code)
}

func TestMagicFormulaMarketCapFloor(t *testing.T) {
	small := fundamental("SMALL", "20", "15", "8")
	small.MarketCap = nd("500")
	big := fundamental("BIG", "10", "25", "5")
	big.MarketCap = nd("5000")

	results, err := newScreener([]contracts.FundamentalSnapshot{small, big}).
		MagicFormula(context.Background(), 0, dec("1000"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "BIG", results[0].Code)
}

func TestLowPEG(t *testing.T) {
	cheap := fundamental("CHEAP", "10", "10", "5")
	cheap.EPSGrowth = nd("20") // PEG 0.25
	fair := fundamental("FAIR", "10", "10", "9")
	fair.EPSGrowth = nd("10") // PEG 0.9
	expensive := fundamental("EXP", "10", "10", "30")
	expensive.EPSGrowth = nd("15") // PEG 2.0
	slow := fundamental("SLOW", "10", "10", "3")
	slow.EPSGrowth = nd("5") // 성장률 미달

	universe := []contracts.FundamentalSnapshot{fair, expensive, cheap, slow}

	results, err := newScreener(universe).LowPEG(context.Background(), decimal.Zero, decimal.Zero, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// PEG 오름차순
	assert.Equal(t, "CHEAP", results[0].Code)
	assert.Equal(t, "FAIR", results[1].Code)
	assert.True(t, results[0].PEG.Decimal.Equal(dec("0.25")))
}

func TestTurnaround(t *testing.T) {
	flip := fundamental("FLIP", "10", "10", "8")
	flip.NetIncome = nd("50")
	flip.PrevNetIncome = nd("-30")

	surge := fundamental("SURGE", "10", "10", "8")
	surge.NetIncome = nd("200")
	surge.PrevNetIncome = nd("100") // +100%

	mild := fundamental("MILD", "10", "10", "8")
	mild.NetIncome = nd("120")
	mild.PrevNetIncome = nd("100") // +20%, 기준 미달

	sinking := fundamental("SINK", "10", "10", "8")
	sinking.NetIncome = nd("-10")
	sinking.PrevNetIncome = nd("-5")

	universe := []contracts.FundamentalSnapshot{surge, mild, flip, sinking}

	results, err := newScreener(universe).Turnaround(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// 흑자전환 우선, 변화율은 999.99 특별 표기
	assert.Equal(t, "FLIP", results[0].Code)
	assert.Equal(t, contracts.TurnaroundLossToProfit, results[0].TurnaroundType)
	assert.True(t, results[0].NetIncomeChangeRate.Decimal.Equal(dec("999.99")))

	assert.Equal(t, "SURGE", results[1].Code)
	assert.Equal(t, contracts.TurnaroundProfitGrowth, results[1].TurnaroundType)
	assert.True(t, results[1].NetIncomeChangeRate.Decimal.Equal(dec("100")))
}

func TestSummary(t *testing.T) {
	universe := []contracts.FundamentalSnapshot{
		fundamental("A", "20", "15", "8"),
		fundamental("B", "10", "25", "5"),
	}

	summary, err := newScreener(universe).Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary["magic_formula_count"])
	assert.Contains(t, summary, "low_peg")
	assert.Contains(t, summary, "turnaround")
}
