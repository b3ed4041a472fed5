package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/finboard/internal/contracts"
)

// MFI computes the Money Flow Index over the most recent period bars.
// Requires period+1 bars.
//
// Typical Price = (High + Low + Close) / 3
// Raw Money Flow = Typical Price * Volume
// MFI = 100 - (100 / (1 + Positive Flow / Negative Flow))
//
// Bars with any non-positive field are skipped. A flat typical price
// contributes to neither flow direction.
func MFI(s contracts.OHLCVSeries, period int) (contracts.MoneyFlow, bool) {
	if s.Len() < period+1 {
		return contracts.MoneyFlow{}, false
	}

	positiveFlow := decimal.Zero
	negativeFlow := decimal.Zero

	for i := 0; i < period && i < s.Len()-1; i++ {
		current := s.At(i)
		previous := s.At(i + 1)
		if !current.Valid() || !previous.Valid() {
			continue
		}

		typical := typicalPrice(current)
		prevTypical := typicalPrice(previous)
		rawFlow := typical.Mul(current.Volume)

		switch typical.Cmp(prevTypical) {
		case 1:
			positiveFlow = positiveFlow.Add(rawFlow)
		case -1:
			negativeFlow = negativeFlow.Add(rawFlow)
		}
	}

	var score decimal.Decimal
	switch {
	case negativeFlow.IsZero():
		score = hundred
	case positiveFlow.IsZero():
		score = decimal.Zero
	default:
		ratio := positiveFlow.DivRound(negativeFlow, calcScale)
		score = hundred.Sub(hundred.DivRound(decimal.NewFromInt(1).Add(ratio), calcScale))
	}

	score = clamp100(score).Round(finalScale)

	return contracts.MoneyFlow{Value: score, Zone: MFIZone(score)}, true
}

// MFIZone classifies an MFI reading against the 80/20 bands
func MFIZone(mfi decimal.Decimal) contracts.RSIZone {
	switch {
	case mfi.GreaterThanOrEqual(mfiOverbought):
		return contracts.ZoneOverbought
	case mfi.LessThanOrEqual(mfiOversold):
		return contracts.ZoneOversold
	default:
		return contracts.ZoneNeutral
	}
}

func typicalPrice(b contracts.Bar) decimal.Decimal {
	return b.High.Add(b.Low).Add(b.Close).DivRound(three, calcScale)
}
