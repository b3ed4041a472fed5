package contracts

import (
	"github.com/shopspring/decimal"
)

// RSIZone classifies an RSI-style oscillator reading
type RSIZone string

const (
	ZoneOverbought RSIZone = "OVERBOUGHT" // 과매수
	ZoneOversold   RSIZone = "OVERSOLD"   // 과매도
	ZoneNeutral    RSIZone = "NEUTRAL"    // 중립
	ZoneUnknown    RSIZone = "UNKNOWN"    // 데이터 부족
)

// TechnicalSignal is the overall reading composed from the individual
// indicators. 종합 기술적 신호.
type TechnicalSignal string

const (
	SignalStrongBuy  TechnicalSignal = "STRONG_BUY"
	SignalBuy        TechnicalSignal = "BUY"
	SignalNeutral    TechnicalSignal = "NEUTRAL"
	SignalSell       TechnicalSignal = "SELL"
	SignalStrongSell TechnicalSignal = "STRONG_SELL"
	SignalUnknown    TechnicalSignal = "UNKNOWN"
)

// Label returns the Korean display label for the signal
func (s TechnicalSignal) Label() string {
	switch s {
	case SignalStrongBuy:
		return "강력 매수"
	case SignalBuy:
		return "매수"
	case SignalNeutral:
		return "중립"
	case SignalSell:
		return "매도"
	case SignalStrongSell:
		return "강력 매도"
	default:
		return "판단 불가"
	}
}

// BollingerBands holds one observation window of the 20일 볼린저 밴드
type BollingerBands struct {
	Upper  decimal.Decimal `json:"upper"`
	Middle decimal.Decimal `json:"middle"`
	Lower  decimal.Decimal `json:"lower"`
	// BandWidth = (upper - lower) / middle * 100
	BandWidth decimal.Decimal `json:"band_width"`
	// IsSqueeze: 밴드폭이 최근 평균의 0.7배 이하로 수축
	IsSqueeze bool `json:"is_squeeze"`
	// IsBreakout: 종가가 상단 밴드 돌파
	IsBreakout bool `json:"is_breakout"`
}

// MoneyFlow holds the MFI reading and its zone
type MoneyFlow struct {
	Value decimal.Decimal `json:"value"`
	Zone  RSIZone         `json:"zone"`
}

// IndicatorSnapshot is the full technical picture of one stock at one date.
//
// Nullable fields use decimal.NullDecimal / *bool: an absent value means the
// series was too short (or had invalid samples) for that indicator, which is
// a normal state for recently listed stocks, not an error.
type IndicatorSnapshot struct {
	Code string `json:"code"`
	Date string `json:"date"`

	CurrentPrice decimal.Decimal `json:"current_price"`

	// 이동평균선
	MA5   decimal.NullDecimal `json:"ma5"`
	MA20  decimal.NullDecimal `json:"ma20"`
	MA60  decimal.NullDecimal `json:"ma60"`
	MA120 decimal.NullDecimal `json:"ma120"`

	// 이격도 ((현재가 - MA) / MA * 100)
	Disparity5  decimal.NullDecimal `json:"disparity5"`
	Disparity20 decimal.NullDecimal `json:"disparity20"`
	Disparity60 decimal.NullDecimal `json:"disparity60"`

	RSI14   decimal.NullDecimal `json:"rsi14"`
	RSIZone RSIZone             `json:"rsi_zone"`

	// 추세 판정. nil이면 판정에 필요한 이동평균이 없는 상태.
	IsAboveMA5     *bool `json:"is_above_ma5"`
	IsAboveMA20    *bool `json:"is_above_ma20"`
	IsAboveMA60    *bool `json:"is_above_ma60"`
	IsGoldenCross  *bool `json:"is_golden_cross"`
	IsDeadCross    *bool `json:"is_dead_cross"`
	IsArrangedUp   *bool `json:"is_arranged_up"`   // 정배열 (5 > 20 > 60)
	IsArrangedDown *bool `json:"is_arranged_down"` // 역배열 (5 < 20 < 60)

	Bollinger *BollingerBands `json:"bollinger,omitempty"`
	MoneyFlow *MoneyFlow      `json:"money_flow,omitempty"`

	// BuySignalStrength is the 0-100 composite point score
	BuySignalStrength int             `json:"buy_signal_strength"`
	OverallSignal     TechnicalSignal `json:"overall_signal"`
	SignalDescription string          `json:"signal_description"`

	// DataCount is the number of price samples the snapshot was built from
	DataCount int `json:"data_count"`
}
