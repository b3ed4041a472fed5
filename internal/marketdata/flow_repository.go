package marketdata

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wonny/finboard/internal/contracts"
)

// FlowRepository implements contracts.FlowRepository
// ⭐ SSOT: 수급(외국인/기관) 조회는 여기서만
type FlowRepository struct {
	pool *pgxpool.Pool
}

// NewFlowRepository creates a new investor flow repository
func NewFlowRepository(pool *pgxpool.Pool) *FlowRepository {
	return &FlowRepository{pool: pool}
}

// Summary aggregates foreign/institution flows over the last n sessions
func (r *FlowRepository) Summary(ctx context.Context, code string, days int) (contracts.FlowSummary, error) {
	query := `
		SELECT COALESCE(SUM(foreign_net_value), 0),
			COUNT(*) FILTER (WHERE foreign_net_value > 0),
			COALESCE(SUM(inst_net_value), 0),
			COUNT(*) FILTER (WHERE inst_net_value > 0)
		FROM (
			SELECT foreign_net_value, inst_net_value
			FROM data.investor_flow
			WHERE stock_code = $1
			ORDER BY trade_date DESC
			LIMIT $2
		) recent
	`

	summary := contracts.FlowSummary{Code: code, Days: days}
	err := r.pool.QueryRow(ctx, query, code, days).Scan(
		&summary.ForeignNet, &summary.ForeignBuyDays,
		&summary.InstitutionNet, &summary.InstitutionBuyDays,
	)
	if err != nil {
		return contracts.FlowSummary{}, err
	}
	return summary, nil
}

// ForeignNetTotal returns the foreign net buy sum over the last n sessions,
// in 억원
func (r *FlowRepository) ForeignNetTotal(ctx context.Context, code string, days int) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(foreign_net_value), 0)::numeric / 100000000
		FROM (
			SELECT foreign_net_value
			FROM data.investor_flow
			WHERE stock_code = $1
			ORDER BY trade_date DESC
			LIMIT $2
		) recent
	`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, code, days).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// SaveFlow upserts one day of investor net-buy values, 원 단위
func (r *FlowRepository) SaveFlow(ctx context.Context, code string, date time.Time, foreignNet, instNet, indivNet int64) error {
	query := `
		INSERT INTO data.investor_flow (stock_code, trade_date, foreign_net_value, inst_net_value, indiv_net_value)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (stock_code, trade_date) DO UPDATE SET
			foreign_net_value = EXCLUDED.foreign_net_value,
			inst_net_value = EXCLUDED.inst_net_value,
			indiv_net_value = EXCLUDED.indiv_net_value
	`

	_, err := r.pool.Exec(ctx, query, code, date, foreignNet, instNet, indivNet)
	return err
}

// ForeignNetTotals returns the per-stock foreign net buy sums over the last
// n sessions, in 억원. 스퀴즈 스캔용 벌크 조회.
func (r *FlowRepository) ForeignNetTotals(ctx context.Context, days int) (map[string]decimal.Decimal, error) {
	query := `
		WITH recent AS (
			SELECT stock_code, foreign_net_value,
				ROW_NUMBER() OVER (PARTITION BY stock_code ORDER BY trade_date DESC) AS rn
			FROM data.investor_flow
		)
		SELECT stock_code, SUM(foreign_net_value)::numeric / 100000000
		FROM recent
		WHERE rn <= $1
		GROUP BY stock_code
	`

	rows, err := r.pool.Query(ctx, query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var code string
		var total decimal.Decimal
		if err := rows.Scan(&code, &total); err != nil {
			return nil, err
		}
		totals[code] = total
	}
	return totals, rows.Err()
}
