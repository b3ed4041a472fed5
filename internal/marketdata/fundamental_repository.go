package marketdata

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/finboard/internal/contracts"
)

// FundamentalRepository implements contracts.FundamentalRepository
// ⭐ SSOT: 재무 데이터 조회는 여기서만
type FundamentalRepository struct {
	pool *pgxpool.Pool
}

// NewFundamentalRepository creates a new fundamental repository
func NewFundamentalRepository(pool *pgxpool.Pool) *FundamentalRepository {
	return &FundamentalRepository{pool: pool}
}

// 종목별 최신 분기 + 직전 분기(LAG)를 한 번에 짝지어 가져온다.
// 흑자전환 스크리너가 prev_* 컬럼을 쓴다.
const fundamentalSelect = `
	WITH paired AS (
		SELECT f.stock_code, f.report_date, f.market_cap,
			f.per, f.pbr, f.roe,
			f.operating_margin, f.net_margin, f.debt_ratio,
			f.eps, f.eps_growth, f.revenue_growth, f.profit_growth,
			f.operating_profit, f.net_income,
			LAG(f.operating_profit) OVER w AS prev_operating_profit,
			LAG(f.net_income) OVER w AS prev_net_income,
			ROW_NUMBER() OVER (PARTITION BY f.stock_code ORDER BY f.report_date DESC) AS rn
		FROM data.fundamentals f
		WINDOW w AS (PARTITION BY f.stock_code ORDER BY f.report_date)
	)
	SELECT p.stock_code, s.name, s.market, s.sector,
		COALESCE(lp.close_price, 0) AS current_price,
		p.market_cap, p.per, p.pbr, p.roe,
		p.operating_margin, p.net_margin, p.debt_ratio,
		p.eps, p.eps_growth, p.revenue_growth, p.profit_growth,
		p.operating_profit, p.prev_operating_profit,
		p.net_income, p.prev_net_income,
		p.report_date
	FROM paired p
	JOIN data.stocks s ON s.code = p.stock_code
	LEFT JOIN LATERAL (
		SELECT d.close_price
		FROM data.daily_prices d
		WHERE d.stock_code = p.stock_code
		ORDER BY d.trade_date DESC
		LIMIT 1
	) lp ON true
	WHERE p.rn = 1
`

// Latest returns the most recent snapshot for one stock.
// 데이터가 없으면 빈 스냅샷 (진단에서 "분석 불가" 처리).
func (r *FundamentalRepository) Latest(ctx context.Context, code string) (contracts.FundamentalSnapshot, error) {
	query := fundamentalSelect + ` AND s.code = $1`

	row := r.pool.QueryRow(ctx, query, code)
	snap, err := scanFundamental(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return contracts.FundamentalSnapshot{}, nil
	}
	return snap, err
}

// Universe returns the latest snapshot of every screenable stock
func (r *FundamentalRepository) Universe(ctx context.Context) ([]contracts.FundamentalSnapshot, error) {
	rows, err := r.pool.Query(ctx, fundamentalSelect+` ORDER BY p.stock_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var universe []contracts.FundamentalSnapshot
	for rows.Next() {
		snap, err := scanFundamental(rows)
		if err != nil {
			return nil, err
		}
		universe = append(universe, snap)
	}
	return universe, rows.Err()
}

func scanFundamental(row pgx.Row) (contracts.FundamentalSnapshot, error) {
	var f contracts.FundamentalSnapshot
	err := row.Scan(
		&f.Code, &f.Name, &f.Market, &f.Sector,
		&f.CurrentPrice,
		&f.MarketCap, &f.PER, &f.PBR, &f.ROE,
		&f.OperatingMargin, &f.NetMargin, &f.DebtRatio,
		&f.EPS, &f.EPSGrowth, &f.RevenueGrowth, &f.ProfitGrowth,
		&f.OperatingProfit, &f.PrevOperatingProfit,
		&f.NetIncome, &f.PrevNetIncome,
		&f.ReportDate,
	)
	return f, err
}
