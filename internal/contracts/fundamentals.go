package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundamentalSnapshot is one stock's latest reported fundamentals plus the
// market data the screeners rank on. Missing metrics are represented as
// invalid NullDecimals, never as zero.
type FundamentalSnapshot struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Market string `json:"market"` // KOSPI / KOSDAQ
	Sector string `json:"sector"`

	CurrentPrice decimal.Decimal     `json:"current_price"`
	MarketCap    decimal.NullDecimal `json:"market_cap"`

	PER decimal.NullDecimal `json:"per"`
	PBR decimal.NullDecimal `json:"pbr"`
	ROE decimal.NullDecimal `json:"roe"`

	OperatingMargin decimal.NullDecimal `json:"operating_margin"`
	NetMargin       decimal.NullDecimal `json:"net_margin"`
	DebtRatio       decimal.NullDecimal `json:"debt_ratio"`

	EPS       decimal.NullDecimal `json:"eps"`
	EPSGrowth decimal.NullDecimal `json:"eps_growth"` // YoY %

	RevenueGrowth decimal.NullDecimal `json:"revenue_growth"` // YoY %
	ProfitGrowth  decimal.NullDecimal `json:"profit_growth"`  // YoY %

	// 직전/당기 영업이익, 흑자전환 판정용
	OperatingProfit     decimal.NullDecimal `json:"operating_profit"`
	PrevOperatingProfit decimal.NullDecimal `json:"prev_operating_profit"`
	NetIncome           decimal.NullDecimal `json:"net_income"`
	PrevNetIncome       decimal.NullDecimal `json:"prev_net_income"`

	ReportDate time.Time `json:"report_date"`
}

// PEG returns PER / EPSGrowth, false when either input is missing or the
// growth is not positive.
func (f FundamentalSnapshot) PEG() (decimal.Decimal, bool) {
	if !f.PER.Valid || !f.EPSGrowth.Valid {
		return decimal.Zero, false
	}
	if !f.PER.Decimal.IsPositive() || !f.EPSGrowth.Decimal.IsPositive() {
		return decimal.Zero, false
	}
	return f.PER.Decimal.DivRound(f.EPSGrowth.Decimal, 2), true
}

// FlowSummary aggregates investor flows over a lookback window.
// 수급 요약 (외국인/기관).
type FlowSummary struct {
	Code string `json:"code"`
	Days int    `json:"days"`

	ForeignNet         decimal.Decimal `json:"foreign_net"`      // 순매수 합계
	ForeignBuyDays     int             `json:"foreign_buy_days"` // 순매수 일수
	InstitutionNet     decimal.Decimal `json:"institution_net"`
	InstitutionBuyDays int             `json:"institution_buy_days"`
}
