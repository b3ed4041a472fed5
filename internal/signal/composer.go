// Package signal composes the individual technical indicators into one
// snapshot with a 0-100 buy-signal strength and an overall reading.
package signal

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wonny/finboard/internal/contracts"
	"github.com/wonny/finboard/internal/indicator"
	"github.com/wonny/finboard/pkg/logger"
)

// Composer builds IndicatorSnapshots from price history
type Composer struct {
	log *logger.Logger
}

// NewComposer returns a snapshot composer
func NewComposer(log *logger.Logger) *Composer {
	return &Composer{log: log}
}

// Compose calculates the full technical snapshot for one stock.
//
// prices must be newest-first. bars is optional; when present (and long
// enough) the snapshot additionally carries MFI.
// An empty or invalid series yields a neutral "데이터 부족" snapshot.
func (c *Composer) Compose(code, date string, prices contracts.PriceSeries, bars contracts.OHLCVSeries) contracts.IndicatorSnapshot {
	current, ok := prices.Latest()
	if !ok || !current.IsPositive() {
		c.log.WithField("code", code).Debug("가격 데이터 부족, 중립 스냅샷 반환")
		return emptySnapshot(code, date, prices.Len())
	}

	snap := contracts.IndicatorSnapshot{
		Code:         code,
		Date:         date,
		CurrentPrice: current,
		DataCount:    prices.Len(),
	}

	// 이동평균선
	ma5 := nullMA(prices, indicator.PeriodMA5)
	ma20 := nullMA(prices, indicator.PeriodMA20)
	ma60 := nullMA(prices, indicator.PeriodMA60)
	snap.MA5 = ma5
	snap.MA20 = ma20
	snap.MA60 = ma60
	snap.MA120 = nullMA(prices, indicator.PeriodMA120)

	// 이격도
	snap.Disparity5 = nullDisparity(current, ma5)
	snap.Disparity20 = nullDisparity(current, ma20)
	snap.Disparity60 = nullDisparity(current, ma60)

	// RSI
	if rsi, ok := indicator.RSI(prices, indicator.PeriodRSI); ok {
		snap.RSI14 = decimal.NewNullDecimal(rsi)
		snap.RSIZone = indicator.RSIZone(rsi)
	} else {
		snap.RSIZone = contracts.ZoneUnknown
	}

	// 이동평균 대비 위치
	snap.IsAboveMA5 = isAbove(current, ma5)
	snap.IsAboveMA20 = isAbove(current, ma20)
	snap.IsAboveMA60 = isAbove(current, ma60)

	// 골든크로스/데드크로스: 전일 기준 5일선과 20일선 재계산 후 비교
	if ma5.Valid && ma20.Valid && prices.Len() >= 2 {
		yesterday := prices.Shift(1)
		prevMA5, ok5 := indicator.MA(yesterday, indicator.PeriodMA5)
		prevMA20, ok20 := indicator.MA(yesterday, indicator.PeriodMA20)
		if ok5 && ok20 {
			golden := prevMA5.LessThan(prevMA20) && ma5.Decimal.GreaterThan(ma20.Decimal)
			dead := prevMA5.GreaterThan(prevMA20) && ma5.Decimal.LessThan(ma20.Decimal)
			snap.IsGoldenCross = &golden
			snap.IsDeadCross = &dead
		}
	}

	// 정배열/역배열
	if ma5.Valid && ma20.Valid && ma60.Valid {
		up := ma5.Decimal.GreaterThan(ma20.Decimal) && ma20.Decimal.GreaterThan(ma60.Decimal)
		down := ma5.Decimal.LessThan(ma20.Decimal) && ma20.Decimal.LessThan(ma60.Decimal)
		snap.IsArrangedUp = &up
		snap.IsArrangedDown = &down
	}

	// 볼린저 밴드는 종가만으로 계산한다
	if bb, ok := indicator.Bollinger(prices); ok {
		snap.Bollinger = &bb
	}

	// MFI만 OHLCV 필요
	if bars.Len() > 0 {
		if mf, ok := indicator.MFI(bars, indicator.PeriodMFI); ok {
			snap.MoneyFlow = &mf
		}
	}

	snap.BuySignalStrength = buySignalStrength(current, snap)
	snap.OverallSignal = overallSignal(snap.BuySignalStrength)
	snap.SignalDescription = describeSignals(snap)

	return snap
}

// buySignalStrength scores the snapshot on a 0-100 scale starting from a
// neutral 50.
//
// 이동평균 위치 ±30, 골든크로스 +15, 정배열 +15, RSI 침체 +20 / 과열 -10.
func buySignalStrength(current decimal.Decimal, snap contracts.IndicatorSnapshot) int {
	score := 50

	if snap.MA5.Valid {
		switch current.Cmp(snap.MA5.Decimal) {
		case 1:
			score += 5
		case -1:
			score -= 5
		}
	}
	if snap.MA20.Valid {
		switch current.Cmp(snap.MA20.Decimal) {
		case 1:
			score += 10
		case -1:
			score -= 10
		}
	}
	if snap.MA60.Valid {
		switch current.Cmp(snap.MA60.Decimal) {
		case 1:
			score += 15
		case -1:
			score -= 15
		}
	}

	if snap.IsGoldenCross != nil && *snap.IsGoldenCross {
		score += 15
	}
	if snap.IsArrangedUp != nil && *snap.IsArrangedUp {
		score += 15
	}

	if snap.RSI14.Valid {
		rsi := snap.RSI14.Decimal
		switch {
		case rsi.LessThanOrEqual(decimal.NewFromInt(30)):
			score += 20
		case rsi.GreaterThanOrEqual(decimal.NewFromInt(70)):
			score -= 10
		}
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// overallSignal maps strength to the five-step signal
func overallSignal(strength int) contracts.TechnicalSignal {
	switch {
	case strength >= 80:
		return contracts.SignalStrongBuy
	case strength >= 60:
		return contracts.SignalBuy
	case strength >= 40:
		return contracts.SignalNeutral
	case strength >= 20:
		return contracts.SignalSell
	default:
		return contracts.SignalStrongSell
	}
}

// describeSignals joins the notable signals into a Korean one-liner
func describeSignals(snap contracts.IndicatorSnapshot) string {
	var signals []string

	if snap.IsGoldenCross != nil && *snap.IsGoldenCross {
		signals = append(signals, "골든크로스 발생")
	}
	if snap.IsDeadCross != nil && *snap.IsDeadCross {
		signals = append(signals, "데드크로스 발생")
	}
	if snap.IsArrangedUp != nil && *snap.IsArrangedUp {
		signals = append(signals, "이평선 정배열")
	}
	if snap.IsArrangedDown != nil && *snap.IsArrangedDown {
		signals = append(signals, "이평선 역배열")
	}
	if snap.RSI14.Valid {
		rsi := snap.RSI14.Decimal
		if rsi.GreaterThanOrEqual(decimal.NewFromInt(70)) {
			signals = append(signals, "RSI 과열("+rsi.Round(1).String()+")")
		} else if rsi.LessThanOrEqual(decimal.NewFromInt(30)) {
			signals = append(signals, "RSI 침체("+rsi.Round(1).String()+")")
		}
	}
	if snap.Bollinger != nil && snap.Bollinger.IsBreakout {
		signals = append(signals, "볼린저 상단 돌파")
	}

	if len(signals) == 0 {
		return "특이 신호 없음"
	}
	return strings.Join(signals, " / ")
}

func emptySnapshot(code, date string, dataCount int) contracts.IndicatorSnapshot {
	return contracts.IndicatorSnapshot{
		Code:              code,
		Date:              date,
		DataCount:         dataCount,
		RSIZone:           contracts.ZoneUnknown,
		OverallSignal:     contracts.SignalNeutral,
		SignalDescription: "데이터 부족",
	}
}

func nullMA(prices contracts.PriceSeries, period int) decimal.NullDecimal {
	if ma, ok := indicator.MA(prices, period); ok {
		return decimal.NewNullDecimal(ma)
	}
	return decimal.NullDecimal{}
}

func nullDisparity(current decimal.Decimal, ma decimal.NullDecimal) decimal.NullDecimal {
	if !ma.Valid {
		return decimal.NullDecimal{}
	}
	if d, ok := indicator.Disparity(current, ma.Decimal); ok {
		return decimal.NewNullDecimal(d)
	}
	return decimal.NullDecimal{}
}

func isAbove(current decimal.Decimal, ma decimal.NullDecimal) *bool {
	if !ma.Valid {
		return nil
	}
	above := current.GreaterThan(ma.Decimal)
	return &above
}
