package contracts

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PriceRepository serves historical prices, newest first
type PriceRepository interface {
	// ClosePrices returns up to limit daily closes for a stock
	ClosePrices(ctx context.Context, code string, limit int) (PriceSeries, error)
	// OHLCV returns up to limit daily bars for a stock
	OHLCV(ctx context.Context, code string, limit int) (OHLCVSeries, error)
	// LatestTradingDate returns the most recent date with price data
	LatestTradingDate(ctx context.Context) (time.Time, error)
}

// FundamentalRepository serves reported fundamentals
type FundamentalRepository interface {
	// Latest returns the most recent snapshot for one stock
	Latest(ctx context.Context, code string) (FundamentalSnapshot, error)
	// Universe returns the latest snapshot of every screenable stock
	Universe(ctx context.Context) ([]FundamentalSnapshot, error)
}

// ShortDataRepository serves short-interest and loan-balance history
type ShortDataRepository interface {
	// LoanHistory returns up to limit daily readings, newest first
	LoanHistory(ctx context.Context, code string, limit int) ([]ShortPosition, error)
	// RecentHistory returns readings since the given date for every stock
	// with loan-balance data, grouped by code, newest first within each
	// group. Bulk query so candidate scans avoid N+1 round trips.
	RecentHistory(ctx context.Context, since time.Time) (map[string][]ShortPosition, error)
}

// FlowRepository serves investor trade flows
type FlowRepository interface {
	// Summary aggregates foreign/institution flows over the last n sessions
	Summary(ctx context.Context, code string, days int) (FlowSummary, error)
	// ForeignNetTotal returns the foreign net buy sum over the last n sessions
	ForeignNetTotal(ctx context.Context, code string, days int) (decimal.Decimal, error)
	// ForeignNetTotals returns the per-stock foreign net buy sums over the
	// last n sessions, in 억원
	ForeignNetTotals(ctx context.Context, days int) (map[string]decimal.Decimal, error)
}

// StockRepository serves the listed-stock master
type StockRepository interface {
	// Meta returns name/market/sector for a stock code
	Meta(ctx context.Context, code string) (StockMeta, error)
}

// StockMeta is the listing master record for one stock
type StockMeta struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Market string `json:"market"`
	Sector string `json:"sector"`
}
