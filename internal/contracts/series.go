package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSeries is a reverse-chronological sequence of closing prices:
// index 0 is the most recent sample.
// ⭐ SSOT: 시계열 순서 규약(최신 우선)은 이 타입으로만 표현
//
// The wrapper exists so callers cannot hand a chronological slice to the
// indicator engine by accident; construct via NewPriceSeries (already
// newest-first) or PriceSeriesFromChronological (will be reversed).
type PriceSeries struct {
	closes []decimal.Decimal
}

// NewPriceSeries wraps a newest-first slice of closing prices.
func NewPriceSeries(newestFirst []decimal.Decimal) PriceSeries {
	return PriceSeries{closes: newestFirst}
}

// PriceSeriesFromChronological builds a series from an oldest-first slice.
func PriceSeriesFromChronological(oldestFirst []decimal.Decimal) PriceSeries {
	reversed := make([]decimal.Decimal, len(oldestFirst))
	for i, v := range oldestFirst {
		reversed[len(oldestFirst)-1-i] = v
	}
	return PriceSeries{closes: reversed}
}

// Len returns the number of samples
func (s PriceSeries) Len() int {
	return len(s.closes)
}

// At returns the sample i days back (0 = most recent)
func (s PriceSeries) At(i int) decimal.Decimal {
	return s.closes[i]
}

// Latest returns the most recent sample, false when the series is empty
func (s PriceSeries) Latest() (decimal.Decimal, bool) {
	if len(s.closes) == 0 {
		return decimal.Zero, false
	}
	return s.closes[0], true
}

// Shift returns the view of the series as of n samples earlier.
// Shift(1)은 전일 기준 시계열 — 골든크로스 판정에 사용.
func (s PriceSeries) Shift(n int) PriceSeries {
	if n >= len(s.closes) {
		return PriceSeries{}
	}
	return PriceSeries{closes: s.closes[n:]}
}

// Valid reports whether the sample at i is a usable reading (> 0).
// 0 이하의 값은 결측 취급 (spec: invalid input → absent).
func (s PriceSeries) Valid(i int) bool {
	return s.closes[i].IsPositive()
}

// Bar is a single OHLCV reading
type Bar struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
}

// Valid reports whether every field needed for money-flow math is positive
func (b Bar) Valid() bool {
	return b.High.IsPositive() && b.Low.IsPositive() &&
		b.Close.IsPositive() && b.Volume.IsPositive()
}

// OHLCVSeries is a reverse-chronological sequence of bars, index 0 newest.
// Same ordering contract as PriceSeries.
type OHLCVSeries struct {
	bars []Bar
}

// NewOHLCVSeries wraps a newest-first slice of bars
func NewOHLCVSeries(newestFirst []Bar) OHLCVSeries {
	return OHLCVSeries{bars: newestFirst}
}

// OHLCVSeriesFromChronological builds a series from an oldest-first slice
func OHLCVSeriesFromChronological(oldestFirst []Bar) OHLCVSeries {
	reversed := make([]Bar, len(oldestFirst))
	for i, b := range oldestFirst {
		reversed[len(oldestFirst)-1-i] = b
	}
	return OHLCVSeries{bars: reversed}
}

// Len returns the number of bars
func (s OHLCVSeries) Len() int {
	return len(s.bars)
}

// At returns the bar i days back (0 = most recent)
func (s OHLCVSeries) At(i int) Bar {
	return s.bars[i]
}

// Closes extracts the closing prices as a PriceSeries
func (s OHLCVSeries) Closes() PriceSeries {
	closes := make([]decimal.Decimal, len(s.bars))
	for i, b := range s.bars {
		closes[i] = b.Close
	}
	return PriceSeries{closes: closes}
}
