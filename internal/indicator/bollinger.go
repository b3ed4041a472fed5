package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/finboard/internal/contracts"
)

// Bollinger computes the 20일 볼린저 밴드 for the series.
//
// 중단선은 20일 SMA, 상하단은 ±2 표준편차. 스퀴즈는 현재 밴드폭이 최근
// 20일 밴드폭 평균의 0.7배 이하일 때, 돌파는 종가가 상단 밴드를 넘을 때.
// Absent when the series is too short or the window has zero variance.
func Bollinger(s contracts.PriceSeries) (contracts.BollingerBands, bool) {
	if s.Len() < PeriodBB {
		return contracts.BollingerBands{}, false
	}

	current, ok := s.Latest()
	if !ok {
		return contracts.BollingerBands{}, false
	}

	middle, ok := MA(s, PeriodBB)
	if !ok {
		return contracts.BollingerBands{}, false
	}

	stdDev, ok := StdDev(s, PeriodBB)
	if !ok || stdDev.IsZero() {
		return contracts.BollingerBands{}, false
	}

	upper := middle.Add(stdDev.Mul(bbMultiplier))
	lower := middle.Sub(stdDev.Mul(bbMultiplier))

	bandWidth := upper.Sub(lower).
		DivRound(middle, calcScale).
		Mul(hundred).
		Round(finalScale)

	isSqueeze := false
	if widths := recentBandWidths(s); len(widths) > 0 {
		sum := decimal.Zero
		for _, w := range widths {
			sum = sum.Add(w)
		}
		avg := sum.DivRound(decimal.NewFromInt(int64(len(widths))), calcScale)
		isSqueeze = bandWidth.LessThanOrEqual(avg.Mul(bbSqueezeFactor))
	}

	return contracts.BollingerBands{
		Upper:      upper.Round(0),
		Middle:     middle.Round(0),
		Lower:      lower.Round(0),
		BandWidth:  bandWidth,
		IsSqueeze:  isSqueeze,
		IsBreakout: current.GreaterThan(upper),
	}, true
}

// recentBandWidths computes the band width for each of the last 20 window
// positions that still have a full 20-sample window behind them.
func recentBandWidths(s contracts.PriceSeries) []decimal.Decimal {
	var widths []decimal.Decimal

	for i := 0; i < PeriodBB && i+PeriodBB <= s.Len(); i++ {
		window := s.Shift(i)

		ma, ok := MA(window, PeriodBB)
		if !ok || !ma.IsPositive() {
			continue
		}
		stdDev, ok := StdDev(window, PeriodBB)
		if !ok {
			continue
		}

		upper := ma.Add(stdDev.Mul(bbMultiplier))
		lower := ma.Sub(stdDev.Mul(bbMultiplier))
		widths = append(widths, upper.Sub(lower).DivRound(ma, calcScale).Mul(hundred))
	}

	return widths
}
