package contracts

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestPriceSeriesOrdering(t *testing.T) {
	// chronological input: 100 is the oldest, 105 the most recent
	s := PriceSeriesFromChronological([]decimal.Decimal{
		dec("100"), dec("101"), dec("102"), dec("103"), dec("105"),
	})

	require.Equal(t, 5, s.Len())
	assert.True(t, s.At(0).Equal(dec("105")), "index 0 must be the newest sample")
	assert.True(t, s.At(4).Equal(dec("100")))

	latest, ok := s.Latest()
	require.True(t, ok)
	assert.True(t, latest.Equal(dec("105")))
}

func TestPriceSeriesShift(t *testing.T) {
	s := NewPriceSeries([]decimal.Decimal{dec("105"), dec("103"), dec("102")})

	prev := s.Shift(1)
	require.Equal(t, 2, prev.Len())
	assert.True(t, prev.At(0).Equal(dec("103")), "shifted series starts at the previous day")

	empty := s.Shift(3)
	assert.Equal(t, 0, empty.Len())

	_, ok := empty.Latest()
	assert.False(t, ok)
}

func TestPriceSeriesValid(t *testing.T) {
	s := NewPriceSeries([]decimal.Decimal{dec("105"), decimal.Zero, dec("-1")})

	assert.True(t, s.Valid(0))
	assert.False(t, s.Valid(1), "zero price is a missing sample")
	assert.False(t, s.Valid(2))
}

func TestOHLCVSeriesCloses(t *testing.T) {
	s := OHLCVSeriesFromChronological([]Bar{
		{Close: dec("100"), High: dec("101"), Low: dec("99"), Volume: dec("1000")},
		{Close: dec("102"), High: dec("103"), Low: dec("100"), Volume: dec("1200")},
	})

	closes := s.Closes()
	require.Equal(t, 2, closes.Len())
	assert.True(t, closes.At(0).Equal(dec("102")))
}

func TestBarValid(t *testing.T) {
	valid := Bar{High: dec("101"), Low: dec("99"), Close: dec("100"), Volume: dec("1")}
	assert.True(t, valid.Valid())

	noVolume := valid
	noVolume.Volume = decimal.Zero
	assert.False(t, noVolume.Valid())
}

func TestTierForScore(t *testing.T) {
	tests := []struct {
		score int
		want  SqueezeTier
	}{
		{100, TierCritical},
		{80, TierCritical},
		{79, TierHigh},
		{60, TierHigh},
		{59, TierMedium},
		{40, TierMedium},
		{39, TierLow},
		{0, TierLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierForScore(tt.score), "score %d", tt.score)
	}
}

func TestVerdictLevelOrdering(t *testing.T) {
	assert.True(t, VerdictStrongBuy > VerdictBuy)
	assert.True(t, VerdictBuy > VerdictNeutral)
	assert.True(t, VerdictNeutral > VerdictCaution)
	assert.True(t, VerdictCaution > VerdictAvoid)
}

func TestVerdictLevelJSON(t *testing.T) {
	b, err := json.Marshal(VerdictStrongBuy)
	require.NoError(t, err)
	assert.Equal(t, `"STRONG_BUY"`, string(b))

	assert.Equal(t, "매수 적기", VerdictStrongBuy.Label())
	assert.Equal(t, "매수 비추천", VerdictAvoid.Label())
}

func TestFundamentalPEG(t *testing.T) {
	f := FundamentalSnapshot{
		PER:       decimal.NewNullDecimal(dec("10")),
		EPSGrowth: decimal.NewNullDecimal(dec("20")),
	}
	peg, ok := f.PEG()
	require.True(t, ok)
	assert.True(t, peg.Equal(dec("0.5")))

	f.EPSGrowth = decimal.NewNullDecimal(dec("-5"))
	_, ok = f.PEG()
	assert.False(t, ok, "negative growth has no meaningful PEG")

	f.EPSGrowth = decimal.NullDecimal{}
	_, ok = f.PEG()
	assert.False(t, ok)
}

func TestTechnicalSignalLabel(t *testing.T) {
	assert.Equal(t, "강력 매수", SignalStrongBuy.Label())
	assert.Equal(t, "판단 불가", SignalUnknown.Label())
}
