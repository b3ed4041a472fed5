// Package screener implements the fundamentals-based stock screens:
// 마법의 공식, 저PEG 성장주, 턴어라운드.
package screener

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wonny/finboard/internal/contracts"
)

// rankMagicFormula ranks the candidate set by the sum of three ranks:
// 영업이익률 내림차순, ROE 내림차순, PER 오름차순.
//
// The candidate set must already be filtered to margin/ROE positive. The
// PER rank list holds only PER > 0 entries; anything outside it falls back
// to a worst-case rank equal to the universe size. Rank ties keep the
// input order (stable sort, no extra tie-breaking). The full universe is
// ranked and ordered; truncation is the caller's job.
func rankMagicFormula(stocks []contracts.FundamentalSnapshot) []contracts.ScreenerResult {
	if len(stocks) == 0 {
		return nil
	}

	n := len(stocks)

	marginRanks := ranksBy(stocks, func(a, b contracts.FundamentalSnapshot) bool {
		return a.OperatingMargin.Decimal.GreaterThan(b.OperatingMargin.Decimal)
	})
	roeRanks := ranksBy(stocks, func(a, b contracts.FundamentalSnapshot) bool {
		return a.ROE.Decimal.GreaterThan(b.ROE.Decimal)
	})

	// PER 순위는 양수 PER 종목만으로 매긴다
	var perCandidates []contracts.FundamentalSnapshot
	for _, s := range stocks {
		if s.PER.Valid && s.PER.Decimal.IsPositive() {
			perCandidates = append(perCandidates, s)
		}
	}
	perRanks := ranksBy(perCandidates, func(a, b contracts.FundamentalSnapshot) bool {
		return a.PER.Decimal.LessThan(b.PER.Decimal)
	})

	results := make([]contracts.ScreenerResult, 0, n)
	for _, s := range stocks {
		perRank, ok := perRanks[s.Code]
		if !ok {
			perRank = n
		}
		marginRank := marginRanks[s.Code]
		roeRank := roeRanks[s.Code]

		results = append(results, contracts.ScreenerResult{
			Code:            s.Code,
			Name:            s.Name,
			Market:          s.Market,
			Sector:          s.Sector,
			CurrentPrice:    s.CurrentPrice,
			MarketCap:       s.MarketCap,
			PER:             s.PER,
			PBR:             s.PBR,
			ROE:             s.ROE,
			OperatingMargin: s.OperatingMargin,
			NetMargin:       s.NetMargin,
			EPS:             s.EPS,
			EPSGrowth:       s.EPSGrowth,
			PEG:             nullPEG(s),
			RevenueGrowth:   s.RevenueGrowth,
			ProfitGrowth:    s.ProfitGrowth,
			MarginRank:      marginRank,
			ROERank:         roeRank,
			PERRank:         perRank,
			Score:           marginRank + roeRank + perRank,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})

	for i := range results {
		results[i].Position = i + 1
	}

	return results
}

// ranksBy assigns 1-based ranks after a stable sort with the given order
func ranksBy(stocks []contracts.FundamentalSnapshot, less func(a, b contracts.FundamentalSnapshot) bool) map[string]int {
	sorted := make([]contracts.FundamentalSnapshot, len(stocks))
	copy(sorted, stocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	ranks := make(map[string]int, len(sorted))
	for i, s := range sorted {
		ranks[s.Code] = i + 1
	}
	return ranks
}

func nullPEG(s contracts.FundamentalSnapshot) decimal.NullDecimal {
	if peg, ok := s.PEG(); ok {
		return decimal.NewNullDecimal(peg)
	}
	return decimal.NullDecimal{}
}
