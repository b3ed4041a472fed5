package marketdata

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/finboard/internal/contracts"
)

// StockRepository implements contracts.StockRepository
// ⭐ SSOT: 종목 마스터 조회는 여기서만
type StockRepository struct {
	pool *pgxpool.Pool
}

// NewStockRepository creates a new stock master repository
func NewStockRepository(pool *pgxpool.Pool) *StockRepository {
	return &StockRepository{pool: pool}
}

// Meta returns name/market/sector for a stock code
func (r *StockRepository) Meta(ctx context.Context, code string) (contracts.StockMeta, error) {
	query := `
		SELECT code, name, market, COALESCE(sector, '')
		FROM data.stocks
		WHERE code = $1
	`

	var m contracts.StockMeta
	err := r.pool.QueryRow(ctx, query, code).Scan(&m.Code, &m.Name, &m.Market, &m.Sector)
	if err != nil {
		return contracts.StockMeta{}, err
	}
	return m, nil
}

// Codes returns every listed stock code. 수집 잡이 순회용으로 쓴다.
func (r *StockRepository) Codes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT code FROM data.stocks ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
