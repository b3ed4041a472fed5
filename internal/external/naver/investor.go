package naver

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const maxInvestorPages = 150

// FetchInvestorFlow scrapes daily foreign/institution net-buy values from
// the Naver Finance frgn pages, paginating backwards until the window is
// covered.
// ⭐ SSOT: Naver 수급 페이지 호출은 이 함수에서만
func (c *Client) FetchInvestorFlow(ctx context.Context, code string, from, to time.Time) ([]InvestorFlow, error) {
	var flows []InvestorFlow
	noDataPages := 0

	for page := 1; page <= maxInvestorPages; page++ {
		select {
		case <-ctx.Done():
			return flows, ctx.Err()
		default:
		}

		url := fmt.Sprintf("%s/item/frgn.naver?code=%s&page=%d", c.pageURL, code, page)
		body, err := c.get(ctx, url)
		if err != nil {
			return flows, err
		}

		pageFlows, lastDate, hasMore := parseInvestorPage(string(body), code, from, to)
		flows = append(flows, pageFlows...)

		// 기준일 이전 데이터까지 내려갔으면 종료
		if !lastDate.IsZero() && lastDate.Before(from) {
			break
		}
		if !hasMore {
			break
		}

		// 빈 페이지가 이어지면 구조 변경으로 보고 포기
		if lastDate.IsZero() {
			noDataPages++
			if noDataPages >= 3 {
				break
			}
		} else {
			noDataPages = 0
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"code":  code,
		"count": len(flows),
	}).Debug("수급 데이터 수집 완료")
	return flows, nil
}

var investorDateRe = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`)

// parseInvestorPage extracts flow rows from one frgn page. Returns the last
// date seen on the page and whether a next-page link exists.
// 컬럼: 날짜 | 종가 | 대비 | 등락률 | 거래량 | 기관 | 외국인
func parseInvestorPage(html, code string, from, to time.Time) ([]InvestorFlow, time.Time, bool) {
	var flows []InvestorFlow
	var lastDate time.Time

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return flows, lastDate, false
	}

	tables := doc.Find("table.type2")
	if tables.Length() < 2 {
		return flows, lastDate, false
	}

	tables.Eq(1).Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 7 {
			return
		}

		dateText := strings.TrimSpace(cells.Eq(0).Text())
		if !investorDateRe.MatchString(dateText) {
			return
		}
		date, err := time.Parse("2006.01.02", dateText)
		if err != nil {
			return
		}
		lastDate = date

		if date.Before(from) || date.After(to) {
			return
		}

		instNet := parseSignedNumber(cells.Eq(5).Text())
		foreignNet := parseSignedNumber(cells.Eq(6).Text())

		flows = append(flows, InvestorFlow{
			Code:           code,
			Date:           date,
			ForeignNet:     foreignNet,
			InstitutionNet: instNet,
			// 개인은 페이지에 없어서 역산
			IndividualNet: -(foreignNet + instNet),
		})
	})

	hasMore := doc.Find(".pgRR").Length() > 0
	return flows, lastDate, hasMore
}

func parseSignedNumber(s string) int64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "+")
	if s == "" || s == "-" {
		return 0
	}
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
