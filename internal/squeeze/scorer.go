// Package squeeze scores stocks for short-squeeze potential from
// loan-balance history, foreign flows, and price trend.
package squeeze

import (
	"github.com/shopspring/decimal"
)

// 분석 기준 상수
const (
	analysisDays     = 20 // 평균 계산 기간 (거래일)
	coveringDays     = 5  // 숏커버링 판단 기간
	foreignBuyDays   = 3  // 외국인 수급 판단 기간
	queryDaysPadding = 2  // 주말/공휴일 여유 배수
)

var (
	priceRiseThreshold = decimal.RequireFromString("3.0") // 5일 상승률 기준 (%)
	foreignNetBuy5B    = decimal.NewFromInt(5)            // 5억 원
	foreignNetBuy10B   = decimal.NewFromInt(10)           // 10억 원
	hundred            = decimal.NewFromInt(100)
)

// scoreInputs are the facts the squeeze score is computed from
type scoreInputs struct {
	currentLoan     decimal.Decimal
	avgLoan         decimal.Decimal
	loanChange      decimal.NullDecimal // 5일 대차잔고 변화율 (%)
	isShortCovering bool
	foreignNetBuy   decimal.Decimal // 억원
	isForeignBuying bool
	isTrendReversal bool
	isPriceRising   bool
}

// subScores holds the per-factor breakdown of a squeeze score
type subScores struct {
	overheat int // 0-30
	covering int // 0-30
	foreign  int // 0-20
	trend    int // 0-20
	total    int // 0-100
}

// score computes the squeeze score.
//
// 과열도와 커버링 항목은 변화율의 정수부만 쓴다 (소수부 절사).
//   - 과열도: 평균 대비 초과율 × 3/2, 20% 이상이면 만점 30
//   - 커버링: |5일 감소율| × 3, 10% 감소면 만점 30
//   - 외국인: 순매수 +10, 5억/10억 이상이면 +5/+10
//   - 추세: 전환 +10, 실제 상승 동반 시 +10
func score(in scoreInputs) subScores {
	var s subScores

	if in.currentLoan.GreaterThan(in.avgLoan) && in.avgLoan.IsPositive() {
		overheatRatio := in.currentLoan.Sub(in.avgLoan).
			DivRound(in.avgLoan, 4).
			Mul(hundred)
		s.overheat = minInt(30, int(overheatRatio.IntPart())*3/2)
	}

	if in.isShortCovering && in.loanChange.Valid {
		drop := int(in.loanChange.Decimal.IntPart())
		if drop < 0 {
			drop = -drop
		}
		s.covering = minInt(30, drop*3)
	}

	if in.isForeignBuying {
		s.foreign = 10
		switch {
		case in.foreignNetBuy.GreaterThanOrEqual(foreignNetBuy10B):
			s.foreign += 10
		case in.foreignNetBuy.GreaterThanOrEqual(foreignNetBuy5B):
			s.foreign += 5
		}
	}

	if in.isTrendReversal {
		s.trend = 10
		if in.isPriceRising {
			s.trend += 10
		}
	}

	s.total = minInt(100, s.overheat+s.covering+s.foreign+s.trend)
	return s
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
