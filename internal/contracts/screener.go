package contracts

import (
	"github.com/shopspring/decimal"
)

// ScreenerName identifies a screening strategy
type ScreenerName string

const (
	ScreenerMagicFormula ScreenerName = "magic-formula"
	ScreenerPEG          ScreenerName = "peg"
	ScreenerTurnaround   ScreenerName = "turnaround"
)

// ScreenerResult is one ranked row of a screener run.
//
// Score와 개별 랭크는 전체 유니버스 기준으로 계산된 뒤 limit이 적용된다.
// Position is the 1-based place in the final cut.
type ScreenerResult struct {
	Position int    `json:"position"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Market   string `json:"market"`
	Sector   string `json:"sector"`

	CurrentPrice decimal.Decimal     `json:"current_price"`
	MarketCap    decimal.NullDecimal `json:"market_cap"`

	PER decimal.NullDecimal `json:"per"`
	PBR decimal.NullDecimal `json:"pbr"`
	ROE decimal.NullDecimal `json:"roe"`

	OperatingMargin decimal.NullDecimal `json:"operating_margin"`
	NetMargin       decimal.NullDecimal `json:"net_margin"`
	EPS             decimal.NullDecimal `json:"eps"`
	EPSGrowth       decimal.NullDecimal `json:"eps_growth"`
	PEG             decimal.NullDecimal `json:"peg"`
	RevenueGrowth   decimal.NullDecimal `json:"revenue_growth"`
	ProfitGrowth    decimal.NullDecimal `json:"profit_growth"`

	// Magic Formula components. Lower composite Score is better.
	MarginRank int `json:"margin_rank,omitempty"`
	ROERank    int `json:"roe_rank,omitempty"`
	PERRank    int `json:"per_rank,omitempty"`
	Score      int `json:"score,omitempty"`

	// Turnaround annotation: 흑자전환 / 이익 급증 구분
	TurnaroundType      string              `json:"turnaround_type,omitempty"`
	PreviousNetIncome   decimal.NullDecimal `json:"previous_net_income,omitempty"`
	CurrentNetIncome    decimal.NullDecimal `json:"current_net_income,omitempty"`
	NetIncomeChangeRate decimal.NullDecimal `json:"net_income_change_rate,omitempty"`
}

// Turnaround type labels
const (
	TurnaroundLossToProfit = "LOSS_TO_PROFIT" // 적자 → 흑자 전환
	TurnaroundProfitGrowth = "PROFIT_GROWTH"  // 이익 50% 이상 급증
)
