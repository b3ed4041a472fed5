// Package indicator computes technical analysis primitives on daily price
// series: moving averages, RSI, Bollinger bands, MFI.
//
// 모든 계산은 decimal 고정소수점으로 수행한다. 중간 나눗셈은 scale 4
// half-up, 최종 결과는 scale 2 half-up.
//
// Every function takes a reverse-chronological series (index 0 = 최신) and
// reports absence with a false second return instead of an error: a series
// that is too short is a normal state, not a failure.
package indicator

import (
	"github.com/shopspring/decimal"
)

// 기간 상수
const (
	PeriodMA5   = 5
	PeriodMA20  = 20
	PeriodMA60  = 60
	PeriodMA120 = 120
	PeriodRSI   = 14
	PeriodMFI   = 14
	PeriodBB    = 20
)

// calcScale is the intermediate division precision, finalScale the output
const (
	calcScale  = 4
	finalScale = 2
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
	three   = decimal.NewFromInt(3)

	// RSI 기준값
	rsiOverbought = decimal.NewFromInt(70)
	rsiOversold   = decimal.NewFromInt(30)

	// MFI 기준값
	mfiOverbought = decimal.NewFromInt(80)
	mfiOversold   = decimal.NewFromInt(20)

	bbMultiplier    = decimal.RequireFromString("2.0")
	bbSqueezeFactor = decimal.RequireFromString("0.7")
	sqrtConvergence = decimal.RequireFromString("0.0001")
)

// sqrt computes the square root by Newton-Raphson iteration, stopping once
// successive estimates differ by less than 0.0001. Non-positive input
// yields zero.
func sqrt(v decimal.Decimal) decimal.Decimal {
	if v.Sign() <= 0 {
		return decimal.Zero
	}

	// 수렴 판정보다 두 자리 더 정밀하게 반복
	iterScale := int32(calcScale + 2)

	x := v
	for i := 0; i < 50; i++ {
		next := x.Add(v.DivRound(x, iterScale)).DivRound(two, iterScale)
		if x.Sub(next).Abs().LessThan(sqrtConvergence) {
			break
		}
		x = next
	}

	return x.Round(calcScale)
}

// clamp100 confines v to the [0, 100] range
func clamp100(v decimal.Decimal) decimal.Decimal {
	if v.Sign() < 0 {
		return decimal.Zero
	}
	if v.GreaterThan(hundred) {
		return hundred
	}
	return v
}
