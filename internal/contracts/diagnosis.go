package contracts

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// VerdictLevel is the ordered overall verdict of a stock diagnosis.
// Higher is better.
type VerdictLevel int

const (
	VerdictAvoid VerdictLevel = iota
	VerdictCaution
	VerdictNeutral
	VerdictBuy
	VerdictStrongBuy
)

// String returns the wire name of the verdict
func (v VerdictLevel) String() string {
	switch v {
	case VerdictStrongBuy:
		return "STRONG_BUY"
	case VerdictBuy:
		return "BUY"
	case VerdictNeutral:
		return "NEUTRAL"
	case VerdictCaution:
		return "CAUTION"
	default:
		return "AVOID"
	}
}

// Label returns the Korean display label
func (v VerdictLevel) Label() string {
	switch v {
	case VerdictStrongBuy:
		return "매수 적기"
	case VerdictBuy:
		return "매수 고려"
	case VerdictNeutral:
		return "관망 권고"
	case VerdictCaution:
		return "주의 요망"
	default:
		return "매수 비추천"
	}
}

// Description returns the one-line Korean explanation
func (v VerdictLevel) Description() string {
	switch v {
	case VerdictStrongBuy:
		return "종합 분석 결과 매수하기 좋은 시점입니다."
	case VerdictBuy:
		return "긍정적 요소가 많으나 일부 주의 필요합니다."
	case VerdictNeutral:
		return "현재 시점에서는 관망이 좋겠습니다."
	case VerdictCaution:
		return "부정적 신호가 감지되었습니다."
	default:
		return "현재 시점에서 매수를 권하지 않습니다."
	}
}

// MarshalJSON emits the wire name, not the internal ordinal
func (v VerdictLevel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.String() + `"`), nil
}

// UnmarshalJSON parses the wire name back into the ordered level
func (v *VerdictLevel) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"STRONG_BUY"`:
		*v = VerdictStrongBuy
	case `"BUY"`:
		*v = VerdictBuy
	case `"NEUTRAL"`:
		*v = VerdictNeutral
	case `"CAUTION"`:
		*v = VerdictCaution
	case `"AVOID"`:
		*v = VerdictAvoid
	default:
		return fmt.Errorf("unknown verdict level: %s", data)
	}
	return nil
}

// FinancialHealth is the financial soundness leg of a diagnosis
type FinancialHealth struct {
	OperatingProfit decimal.NullDecimal `json:"operating_profit"` // 억원
	NetIncome       decimal.NullDecimal `json:"net_income"`       // 억원
	ProfitGap       decimal.NullDecimal `json:"profit_gap"`       // 순이익 - 영업이익
	ProfitGapRatio  decimal.NullDecimal `json:"profit_gap_ratio"` // %

	HasOneTimeGainWarning bool   `json:"has_one_time_gain_warning"`
	OneTimeGainReason     string `json:"one_time_gain_reason,omitempty"`

	OperatingMargin decimal.NullDecimal `json:"operating_margin"`
	NetMargin       decimal.NullDecimal `json:"net_margin"`
	ROE             decimal.NullDecimal `json:"roe"`
	DebtRatio       decimal.NullDecimal `json:"debt_ratio"`

	Score      int    `json:"score"`
	Assessment string `json:"assessment"` // "양호", "보통", "주의"
}

// SupplyDemand is the investor-flow leg of a diagnosis
type SupplyDemand struct {
	ForeignNet5Days     decimal.Decimal `json:"foreign_net_5days"` // 백만원
	ForeignBuyDays      int             `json:"foreign_buy_days"`
	IsForeignBuying     bool            `json:"is_foreign_buying"`
	InstitutionNet5Days decimal.Decimal `json:"institution_net_5days"`
	InstitutionBuyDays  int             `json:"institution_buy_days"`
	IsInstitutionBuying bool            `json:"is_institution_buying"`

	IsBothBuying  bool `json:"is_both_buying"`
	IsBothSelling bool `json:"is_both_selling"`

	Score      int    `json:"score"`
	Assessment string `json:"assessment"` // "매수 우위", "매도 우위", "혼조"
}

// TechnicalAnalysis is the chart leg of a diagnosis
type TechnicalAnalysis struct {
	IsArrangedUp  *bool `json:"is_arranged_up"`
	IsAboveMA20   *bool `json:"is_above_ma20"`
	IsAboveMA60   *bool `json:"is_above_ma60"`
	IsGoldenCross *bool `json:"is_golden_cross"`
	IsDeadCross   *bool `json:"is_dead_cross"`

	RSI14           decimal.NullDecimal `json:"rsi14"`
	RSIStatus       string              `json:"rsi_status"` // "과열", "침체", "중립"
	IsRSIOversold   bool                `json:"is_rsi_oversold"`
	IsRSIOverbought bool                `json:"is_rsi_overbought"`

	Bollinger *BollingerBands     `json:"bollinger,omitempty"`
	MFIScore  decimal.NullDecimal `json:"mfi_score"`
	MFIStatus string              `json:"mfi_status,omitempty"`

	OverallSignal     TechnicalSignal `json:"overall_signal"`
	BuySignalStrength int             `json:"buy_signal_strength"`
	SignalDescription string          `json:"signal_description"`

	Score      int    `json:"score"`
	Assessment string `json:"assessment"` // "매수 신호", "중립", "매도 신호"
}

// DiagnosisResult is the full double-check report for one stock.
// 스크리너에서 고른 종목의 더블 체크 결과.
type DiagnosisResult struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Market        string          `json:"market"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	DiagnosisDate time.Time       `json:"diagnosis_date"`

	FinancialHealth   FinancialHealth   `json:"financial_health"`
	SupplyDemand      SupplyDemand      `json:"supply_demand"`
	TechnicalAnalysis TechnicalAnalysis `json:"technical_analysis"`

	Verdict      string       `json:"verdict"` // Korean label
	VerdictLevel VerdictLevel `json:"verdict_level"`
	OverallScore int          `json:"overall_score"`
	Warnings     []string     `json:"warnings"`
	Positives    []string     `json:"positives"`
}
