// Package marketdata holds the PostgreSQL repositories behind the
// contracts interfaces. 시세/재무/공매도/수급 조회는 전부 이 패키지를 거친다.
package marketdata

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wonny/finboard/internal/contracts"
)

// PriceRepository implements contracts.PriceRepository
// ⭐ SSOT: 가격 데이터 조회는 여기서만
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// ClosePrices returns up to limit daily closes, newest first
func (r *PriceRepository) ClosePrices(ctx context.Context, code string, limit int) (contracts.PriceSeries, error) {
	query := `
		SELECT close_price
		FROM data.daily_prices
		WHERE stock_code = $1
		ORDER BY trade_date DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, code, limit)
	if err != nil {
		return contracts.PriceSeries{}, err
	}
	defer rows.Close()

	var closes []decimal.Decimal
	for rows.Next() {
		var c decimal.Decimal
		if err := rows.Scan(&c); err != nil {
			return contracts.PriceSeries{}, err
		}
		closes = append(closes, c)
	}
	return contracts.NewPriceSeries(closes), rows.Err()
}

// OHLCV returns up to limit daily bars, newest first
func (r *PriceRepository) OHLCV(ctx context.Context, code string, limit int) (contracts.OHLCVSeries, error) {
	query := `
		SELECT trade_date, open_price, high_price, low_price, close_price, volume
		FROM data.daily_prices
		WHERE stock_code = $1
		ORDER BY trade_date DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, code, limit)
	if err != nil {
		return contracts.OHLCVSeries{}, err
	}
	defer rows.Close()

	var bars []contracts.Bar
	for rows.Next() {
		var b contracts.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return contracts.OHLCVSeries{}, err
		}
		bars = append(bars, b)
	}
	return contracts.NewOHLCVSeries(bars), rows.Err()
}

// LatestTradingDate returns the most recent date with any price data
func (r *PriceRepository) LatestTradingDate(ctx context.Context) (time.Time, error) {
	query := `
		SELECT trade_date
		FROM data.daily_prices
		ORDER BY trade_date DESC
		LIMIT 1
	`

	var d time.Time
	if err := r.pool.QueryRow(ctx, query).Scan(&d); err != nil {
		return time.Time{}, err
	}
	return d, nil
}

// Save upserts one daily bar for a stock
func (r *PriceRepository) Save(ctx context.Context, code string, bar contracts.Bar) error {
	query := `
		INSERT INTO data.daily_prices (stock_code, trade_date, open_price, high_price, low_price, close_price, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (stock_code, trade_date) DO UPDATE SET
			open_price = EXCLUDED.open_price,
			high_price = EXCLUDED.high_price,
			low_price = EXCLUDED.low_price,
			close_price = EXCLUDED.close_price,
			volume = EXCLUDED.volume
	`

	_, err := r.pool.Exec(ctx, query,
		code, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
	)
	return err
}

// SaveBatch upserts multiple daily bars for a stock
func (r *PriceRepository) SaveBatch(ctx context.Context, code string, bars []contracts.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	for _, bar := range bars {
		if err := r.Save(ctx, code, bar); err != nil {
			return err
		}
	}
	return nil
}
