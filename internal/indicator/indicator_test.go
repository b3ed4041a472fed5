package indicator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finboard/internal/contracts"
)

func series(vals ...string) contracts.PriceSeries {
	prices := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		prices[i] = decimal.RequireFromString(v)
	}
	return contracts.NewPriceSeries(prices)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMA(t *testing.T) {
	// 최신 5일: 105, 103, 102, 100, 101 → 평균 102.2
	s := series("105", "103", "102", "100", "101", "999", "999")

	ma, ok := MA(s, 5)
	require.True(t, ok)
	assert.True(t, ma.Equal(dec("102.2")), "got %s", ma)
}

func TestMATooShort(t *testing.T) {
	s := series("105", "103", "102")

	_, ok := MA(s, 5)
	assert.False(t, ok)
}

func TestMASkipsInvalidSamples(t *testing.T) {
	// 0은 결측 취급, 나머지 4개의 평균
	s := series("105", "0", "102", "100", "101")

	ma, ok := MA(s, 5)
	require.True(t, ok)
	assert.True(t, ma.Equal(dec("102")), "got %s", ma)
}

func TestMAAllInvalid(t *testing.T) {
	s := series("0", "0", "0")

	_, ok := MA(s, 3)
	assert.False(t, ok)
}

func TestDisparity(t *testing.T) {
	d, ok := Disparity(dec("102"), dec("100"))
	require.True(t, ok)
	assert.True(t, d.Equal(dec("2")), "got %s", d)

	_, ok = Disparity(dec("102"), decimal.Zero)
	assert.False(t, ok)
}

func TestRSIRequiresPeriodPlusOne(t *testing.T) {
	// 14일 RSI에는 15개가 필요하다
	s := series("10", "11", "12", "13", "14", "15", "16", "17", "18", "19")

	_, ok := RSI(s, PeriodRSI)
	assert.False(t, ok)
}

func TestRSIKnownValue(t *testing.T) {
	// gains: +2, +2, +1×11 = 15 / losses: 1
	// avgGain 1.0714, avgLoss 0.0714, RS 15.0056 → RSI 93.75
	s := series("110", "108", "109", "107", "106", "105", "104",
		"103", "102", "101", "100", "99", "98", "97", "96")

	rsi, ok := RSI(s, PeriodRSI)
	require.True(t, ok)
	assert.True(t, rsi.Equal(dec("93.75")), "got %s", rsi)
}

func TestRSIAllGains(t *testing.T) {
	s := series("115", "114", "113", "112", "111", "110", "109",
		"108", "107", "106", "105", "104", "103", "102", "101")

	rsi, ok := RSI(s, PeriodRSI)
	require.True(t, ok)
	assert.True(t, rsi.Equal(dec("100")))
}

func TestRSIAllLosses(t *testing.T) {
	s := series("101", "102", "103", "104", "105", "106", "107",
		"108", "109", "110", "111", "112", "113", "114", "115")

	rsi, ok := RSI(s, PeriodRSI)
	require.True(t, ok)
	assert.True(t, rsi.IsZero())
}

func TestRSIZone(t *testing.T) {
	assert.Equal(t, contracts.ZoneOverbought, RSIZone(dec("70")))
	assert.Equal(t, contracts.ZoneOversold, RSIZone(dec("30")))
	assert.Equal(t, contracts.ZoneNeutral, RSIZone(dec("50")))
}

func TestStdDev(t *testing.T) {
	// 평균 5, 분산 4 → 표준편차 2
	s := series("2", "4", "4", "4", "5", "5", "7", "9")

	sd, ok := StdDev(s, 8)
	require.True(t, ok)
	assert.True(t, sd.Equal(dec("2")), "got %s", sd)
}

func TestStdDevFlat(t *testing.T) {
	s := series("10", "10", "10", "10")

	sd, ok := StdDev(s, 4)
	require.True(t, ok)
	assert.True(t, sd.IsZero())
}

func TestBollingerFlatSeriesAbsent(t *testing.T) {
	vals := make([]string, PeriodBB)
	for i := range vals {
		vals[i] = "100"
	}

	_, ok := Bollinger(series(vals...))
	assert.False(t, ok, "zero variance has no bands")
}

func TestBollingerBands(t *testing.T) {
	// 최근 20일이 100과 110을 오가는 시계열
	vals := make([]string, 40)
	for i := range vals {
		if i%2 == 0 {
			vals[i] = "110"
		} else {
			vals[i] = "100"
		}
	}

	bb, ok := Bollinger(series(vals...))
	require.True(t, ok)

	// 평균 105, 표준편차 5 → 상단 115, 하단 95
	assert.True(t, bb.Middle.Equal(dec("105")), "middle %s", bb.Middle)
	assert.True(t, bb.Upper.Equal(dec("115")), "upper %s", bb.Upper)
	assert.True(t, bb.Lower.Equal(dec("95")), "lower %s", bb.Lower)
	assert.False(t, bb.IsBreakout, "110은 상단 밴드 아래")
	assert.False(t, bb.IsSqueeze, "밴드폭이 일정하면 수축 아님")
}

func bars(closes ...string) contracts.OHLCVSeries {
	out := make([]contracts.Bar, len(closes))
	for i, c := range closes {
		price := decimal.RequireFromString(c)
		out[i] = contracts.Bar{
			High:   price.Add(dec("1")),
			Low:    price.Sub(dec("1")),
			Close:  price,
			Volume: dec("1000"),
		}
	}
	return contracts.NewOHLCVSeries(out)
}

func TestMFIRequiresPeriodPlusOne(t *testing.T) {
	_, ok := MFI(bars("100", "101", "102"), PeriodMFI)
	assert.False(t, ok)
}

func TestMFIAllRising(t *testing.T) {
	closes := make([]string, 15)
	for i := range closes {
		closes[i] = decimal.NewFromInt(int64(130 - i)).String()
	}

	mf, ok := MFI(bars(closes...), PeriodMFI)
	require.True(t, ok)
	assert.True(t, mf.Value.Equal(dec("100")))
	assert.Equal(t, contracts.ZoneOverbought, mf.Zone)
}

func TestMFIAllFalling(t *testing.T) {
	closes := make([]string, 15)
	for i := range closes {
		closes[i] = decimal.NewFromInt(int64(100 + i)).String()
	}

	mf, ok := MFI(bars(closes...), PeriodMFI)
	require.True(t, ok)
	assert.True(t, mf.Value.IsZero())
	assert.Equal(t, contracts.ZoneOversold, mf.Zone)
}

func TestSqrt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4", "2"},
		{"25", "5"},
		{"0", "0"},
		{"-3", "0"},
	}

	for _, tt := range tests {
		got := sqrt(dec(tt.in))
		assert.True(t, got.Equal(dec(tt.want)), "sqrt(%s) = %s", tt.in, got)
	}
}
