package marketdata

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/finboard/internal/contracts"
)

// ShortDataRepository implements contracts.ShortDataRepository
// ⭐ SSOT: 공매도/대차잔고 조회는 여기서만
type ShortDataRepository struct {
	pool *pgxpool.Pool
}

// NewShortDataRepository creates a new short data repository
func NewShortDataRepository(pool *pgxpool.Pool) *ShortDataRepository {
	return &ShortDataRepository{pool: pool}
}

const shortSelect = `
	SELECT si.stock_code, s.name, si.trade_date,
		si.loan_balance, si.loan_balance_ratio, si.short_ratio,
		si.close_price, si.change_rate
	FROM data.short_interest si
	JOIN data.stocks s ON s.code = si.stock_code
`

// LoanHistory returns up to limit daily readings for one stock, newest first
func (r *ShortDataRepository) LoanHistory(ctx context.Context, code string, limit int) ([]contracts.ShortPosition, error) {
	query := shortSelect + `
		WHERE si.stock_code = $1
		ORDER BY si.trade_date DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, code, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []contracts.ShortPosition
	for rows.Next() {
		p, err := scanShortPosition(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, p)
	}
	return history, rows.Err()
}

// RecentHistory returns readings since the given date for every stock with
// loan-balance data, grouped by code, newest first within each group.
// 후보 스캔용 벌크 조회. 종목별 개별 쿼리(N+1)를 피한다.
func (r *ShortDataRepository) RecentHistory(ctx context.Context, since time.Time) (map[string][]contracts.ShortPosition, error) {
	query := shortSelect + `
		WHERE si.trade_date >= $1 AND si.loan_balance IS NOT NULL
		ORDER BY si.stock_code, si.trade_date DESC
	`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grouped := make(map[string][]contracts.ShortPosition)
	for rows.Next() {
		p, err := scanShortPosition(rows)
		if err != nil {
			return nil, err
		}
		grouped[p.Code] = append(grouped[p.Code], p)
	}
	return grouped, rows.Err()
}

func scanShortPosition(row pgx.Row) (contracts.ShortPosition, error) {
	var p contracts.ShortPosition
	err := row.Scan(
		&p.Code, &p.Name, &p.Date,
		&p.LoanBalance, &p.LoanBalanceRatio, &p.ShortRatio,
		&p.ClosePrice, &p.ChangeRate,
	)
	return p, err
}
