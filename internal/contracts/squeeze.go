package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// SqueezeTier buckets a squeeze score for display.
// ⭐ SSOT: 스퀴즈 등급 임계값은 TierForScore에만 존재
type SqueezeTier string

const (
	TierCritical SqueezeTier = "CRITICAL" // >= 80
	TierHigh     SqueezeTier = "HIGH"     // >= 60
	TierMedium   SqueezeTier = "MEDIUM"   // >= 40
	TierLow      SqueezeTier = "LOW"
)

// TierForScore maps a 0-100 squeeze score to its tier
func TierForScore(score int) SqueezeTier {
	switch {
	case score >= 80:
		return TierCritical
	case score >= 60:
		return TierHigh
	case score >= 40:
		return TierMedium
	default:
		return TierLow
	}
}

// Label returns the Korean display label for the tier
func (t SqueezeTier) Label() string {
	switch t {
	case TierCritical:
		return "스퀴즈 임박"
	case TierHigh:
		return "스퀴즈 가능성 높음"
	case TierMedium:
		return "관찰 필요"
	default:
		return "가능성 낮음"
	}
}

// ShortPosition is one day's short-interest reading for a stock.
// 대차잔고 (loan balance) is the proxy for outstanding shorts.
type ShortPosition struct {
	Code             string              `json:"code"`
	Name             string              `json:"name"`
	Date             time.Time           `json:"date"`
	LoanBalance      decimal.NullDecimal `json:"loan_balance"`       // 주 수
	LoanBalanceRatio decimal.NullDecimal `json:"loan_balance_ratio"` // 상장주식수 대비 (%)
	ShortRatio       decimal.NullDecimal `json:"short_ratio"`        // 공매도 비중 (%)
	ClosePrice       decimal.NullDecimal `json:"close_price"`
	ChangeRate       decimal.NullDecimal `json:"change_rate"` // 당일 등락률 (%)
}

// SqueezeScore is the scored squeeze analysis for one stock
type SqueezeScore struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Market string `json:"market"`

	CurrentPrice  decimal.Decimal     `json:"current_price"`
	ChangeRate    decimal.NullDecimal `json:"change_rate"`     // 당일 등락률 (%)
	PriceChange5D decimal.NullDecimal `json:"price_change_5d"` // %

	LoanBalance         decimal.Decimal     `json:"loan_balance"`
	LoanBalanceAvg20    decimal.Decimal     `json:"loan_balance_avg20"`
	LoanBalanceRatio    decimal.NullDecimal `json:"loan_balance_ratio"`     // 상장주식수 대비 (%)
	LoanBalanceChange5D decimal.NullDecimal `json:"loan_balance_change_5d"` // 음수면 숏커버링

	ForeignNetBuy3D  decimal.Decimal `json:"foreign_net_buy_3d"` // 억원
	IsForeignBuying  bool            `json:"is_foreign_buying"`
	IsPriceRising    bool            `json:"is_price_rising"`
	IsShortsCovering bool            `json:"is_shorts_covering"`
	IsTrendReversal  bool            `json:"is_trend_reversal"` // 20일선 돌파 또는 골든크로스

	// 부문별 점수 (overheat/covering 각 0-30, foreign/trend 각 0-20)
	OverheatScore int `json:"overheat_score"`
	CoveringScore int `json:"covering_score"`
	ForeignScore  int `json:"foreign_score"`
	TrendScore    int `json:"trend_score"`
	TotalScore    int `json:"total_score"` // 0-100

	Tier        SqueezeTier `json:"tier"`
	Description string      `json:"description"`

	// Technical carries the indicator snapshot computed from the same
	// close series, when at least five samples were available.
	Technical *IndicatorSnapshot `json:"technical,omitempty"`

	AnalysisDate time.Time `json:"analysis_date"`
}
