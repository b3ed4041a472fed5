package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/finboard/internal/contracts"
)

// RSI computes the relative strength index over the most recent period
// changes. Requires period+1 samples (변화량 계산).
//
// RSI = 100 - (100 / (1 + RS)), RS = 평균 상승폭 / 평균 하락폭.
// Averages are plain means over the window, not Wilder smoothing.
func RSI(s contracts.PriceSeries, period int) (decimal.Decimal, bool) {
	if s.Len() < period+1 {
		return decimal.Zero, false
	}

	totalGain := decimal.Zero
	totalLoss := decimal.Zero
	validChanges := 0

	for i := 0; i < period && i < s.Len()-1; i++ {
		previous := s.At(i + 1)
		if previous.IsZero() {
			continue
		}

		change := s.At(i).Sub(previous)
		validChanges++

		if change.Sign() > 0 {
			totalGain = totalGain.Add(change)
		} else {
			totalLoss = totalLoss.Add(change.Abs())
		}
	}

	if validChanges == 0 {
		return decimal.Zero, false
	}

	n := decimal.NewFromInt(int64(validChanges))
	avgGain := totalGain.DivRound(n, calcScale)
	avgLoss := totalLoss.DivRound(n, calcScale)

	// 하락이 전혀 없으면 100, 상승이 전혀 없으면 0
	if avgLoss.IsZero() {
		return hundred, true
	}
	if avgGain.IsZero() {
		return decimal.Zero, true
	}

	rs := avgGain.DivRound(avgLoss, calcScale)
	rsi := hundred.Sub(hundred.DivRound(decimal.NewFromInt(1).Add(rs), calcScale))

	return clamp100(rsi).Round(finalScale), true
}

// RSIZone classifies an RSI reading against the 70/30 bands
func RSIZone(rsi decimal.Decimal) contracts.RSIZone {
	switch {
	case rsi.GreaterThanOrEqual(rsiOverbought):
		return contracts.ZoneOverbought
	case rsi.LessThanOrEqual(rsiOversold):
		return contracts.ZoneOversold
	default:
		return contracts.ZoneNeutral
	}
}
