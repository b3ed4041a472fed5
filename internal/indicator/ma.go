package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/finboard/internal/contracts"
)

// MA computes the simple moving average over the most recent period samples.
// Samples that are zero or negative are skipped; the divisor is the count of
// valid samples, not the period. Absent when the series is shorter than the
// period or no sample is valid.
func MA(s contracts.PriceSeries, period int) (decimal.Decimal, bool) {
	if s.Len() < period {
		return decimal.Zero, false
	}

	sum := decimal.Zero
	valid := 0
	for i := 0; i < period; i++ {
		if !s.Valid(i) {
			continue
		}
		sum = sum.Add(s.At(i))
		valid++
	}

	if valid == 0 {
		return decimal.Zero, false
	}

	return sum.DivRound(decimal.NewFromInt(int64(valid)), calcScale), true
}

// Disparity computes (현재가 - MA) / MA * 100, scale 2
func Disparity(current, ma decimal.Decimal) (decimal.Decimal, bool) {
	if ma.IsZero() {
		return decimal.Zero, false
	}

	return current.Sub(ma).
		DivRound(ma, calcScale).
		Mul(hundred).
		Round(finalScale), true
}

// StdDev computes the population standard deviation of the most recent
// period samples, skipping invalid ones, via Newton-Raphson square root.
func StdDev(s contracts.PriceSeries, period int) (decimal.Decimal, bool) {
	if s.Len() < period {
		return decimal.Zero, false
	}

	sum := decimal.Zero
	valid := 0
	for i := 0; i < period; i++ {
		if !s.Valid(i) {
			continue
		}
		sum = sum.Add(s.At(i))
		valid++
	}
	if valid == 0 {
		return decimal.Zero, false
	}

	mean := sum.DivRound(decimal.NewFromInt(int64(valid)), calcScale)

	sumSquares := decimal.Zero
	for i := 0; i < period; i++ {
		if !s.Valid(i) {
			continue
		}
		diff := s.At(i).Sub(mean)
		sumSquares = sumSquares.Add(diff.Mul(diff))
	}

	variance := sumSquares.DivRound(decimal.NewFromInt(int64(valid)), calcScale)
	return sqrt(variance), true
}
