package signal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finboard/internal/contracts"
	"github.com/wonny/finboard/pkg/logger"
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

func TestComposeEmptySeries(t *testing.T) {
	c := NewComposer(logger.Nop())

	snap := c.Compose("005930", "2026-08-28", contracts.PriceSeries{}, contracts.OHLCVSeries{})

	assert.Equal(t, 0, snap.DataCount)
	assert.Equal(t, contracts.SignalNeutral, snap.OverallSignal)
	assert.Equal(t, "데이터 부족", snap.SignalDescription)
	assert.Equal(t, contracts.ZoneUnknown, snap.RSIZone)
	assert.False(t, snap.MA5.Valid)
}

func TestComposeShortSeriesStaysNeutral(t *testing.T) {
	c := NewComposer(logger.Nop())

	snap := c.Compose("005930", "2026-08-28",
		series("105", "103", "102", "100"), contracts.OHLCVSeries{})

	assert.Equal(t, 4, snap.DataCount)
	assert.False(t, snap.MA5.Valid, "4개로는 5일선 계산 불가")
	assert.Nil(t, snap.IsGoldenCross)
	assert.Nil(t, snap.IsArrangedUp)
	assert.Equal(t, 50, snap.BuySignalStrength)
	assert.Equal(t, contracts.SignalNeutral, snap.OverallSignal)
}

func TestComposeStrongUptrend(t *testing.T) {
	c := NewComposer(logger.Nop())

	// 65거래일 연속 상승: 정배열 + 전 이평선 상회 + RSI 100
	vals := make([]string, 65)
	for i := range vals {
		vals[i] = decimal.NewFromInt(int64(164 - i)).String()
	}

	snap := c.Compose("005930", "2026-08-28", series(vals...), contracts.OHLCVSeries{})

	require.True(t, snap.MA5.Valid)
	require.True(t, snap.MA60.Valid)
	require.NotNil(t, snap.IsArrangedUp)
	assert.True(t, *snap.IsArrangedUp)
	require.NotNil(t, snap.IsGoldenCross)
	assert.False(t, *snap.IsGoldenCross, "계속 위에 있었으면 크로스 아님")

	require.True(t, snap.RSI14.Valid)
	assert.True(t, snap.RSI14.Decimal.Equal(dec("100")))
	assert.Equal(t, contracts.ZoneOverbought, snap.RSIZone)

	// 50 + 30(이평선) + 15(정배열) - 10(RSI 과열) = 85
	assert.Equal(t, 85, snap.BuySignalStrength)
	assert.Equal(t, contracts.SignalStrongBuy, snap.OverallSignal)
	assert.Contains(t, snap.SignalDescription, "이평선 정배열")
	assert.Contains(t, snap.SignalDescription, "RSI 과열")
}

func TestComposeGoldenCross(t *testing.T) {
	c := NewComposer(logger.Nop())

	// 어제까지 5일선이 20일선 아래, 오늘 급등으로 돌파
	vals := []string{"130", "94", "95"}
	for i := 0; i < 18; i++ {
		vals = append(vals, "100")
	}

	snap := c.Compose("005930", "2026-08-28", series(vals...), contracts.OHLCVSeries{})

	require.NotNil(t, snap.IsGoldenCross)
	assert.True(t, *snap.IsGoldenCross)
	require.NotNil(t, snap.IsDeadCross)
	assert.False(t, *snap.IsDeadCross)

	// 50 + 5 + 10(이평선 상회) + 15(골든크로스) - 10(RSI 과열) = 70
	assert.Equal(t, 70, snap.BuySignalStrength)
	assert.Equal(t, contracts.SignalBuy, snap.OverallSignal)
	assert.Contains(t, snap.SignalDescription, "골든크로스 발생")
}

func TestComposeNoNotableSignals(t *testing.T) {
	c := NewComposer(logger.Nop())

	// 100/101 횡보 16일: RSI 50, 크로스/배열 판정 불가
	vals := make([]string, 16)
	for i := range vals {
		if i%2 == 0 {
			vals[i] = "100"
		} else {
			vals[i] = "101"
		}
	}

	snap := c.Compose("005930", "2026-08-28", series(vals...), contracts.OHLCVSeries{})

	require.True(t, snap.RSI14.Valid)
	assert.True(t, snap.RSI14.Decimal.Equal(dec("50")))
	assert.Equal(t, contracts.ZoneNeutral, snap.RSIZone)
	assert.Equal(t, "특이 신호 없음", snap.SignalDescription)
	assert.Nil(t, snap.IsArrangedUp, "60일선 없이는 배열 판정 불가")
}

func TestComposeWithBars(t *testing.T) {
	c := NewComposer(logger.Nop())

	vals := make([]string, 40)
	bars := make([]contracts.Bar, 40)
	for i := range vals {
		price := dec("100")
		if i%2 == 0 {
			price = dec("110")
		}
		vals[i] = price.String()
		bars[i] = contracts.Bar{
			High:   price.Add(dec("1")),
			Low:    price.Sub(dec("1")),
			Close:  price,
			Volume: dec("1000"),
		}
	}

	snap := c.Compose("005930", "2026-08-28",
		series(vals...), contracts.NewOHLCVSeries(bars))

	require.NotNil(t, snap.Bollinger)
	assert.True(t, snap.Bollinger.Middle.Equal(dec("105")))
	require.NotNil(t, snap.MoneyFlow)
}

func TestComposeBollingerWithoutBars(t *testing.T) {
	c := NewComposer(logger.Nop())

	// OHLCV 조회가 실패해도 종가 20개만 있으면 볼린저는 나와야 한다
	vals := make([]string, 25)
	for i := range vals {
		if i%2 == 0 {
			vals[i] = "110"
		} else {
			vals[i] = "100"
		}
	}

	snap := c.Compose("005930", "2026-08-28", series(vals...), contracts.OHLCVSeries{})

	require.NotNil(t, snap.Bollinger)
	assert.True(t, snap.Bollinger.Middle.Equal(dec("105")))
	assert.Nil(t, snap.MoneyFlow, "MFI는 OHLCV 없이는 계산 불가")
}
