package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/finboard/internal/contracts"
)

// FetchDailyBars fetches daily OHLCV bars from the Naver chart API,
// chronological order as served.
// ⭐ SSOT: Naver 시세 차트 호출은 이 함수에서만
func (c *Client) FetchDailyBars(ctx context.Context, code string, from, to time.Time) ([]contracts.Bar, error) {
	url := fmt.Sprintf(
		"%s/siseJson.naver?symbol=%s&requestType=1&startTime=%s&endTime=%s&timeframe=day",
		c.chartURL, code, from.Format("20060102"), to.Format("20060102"),
	)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	bars, err := parseChart(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse chart response failed: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"code":  code,
		"count": len(bars),
	}).Debug("일별 시세 수집 완료")
	return bars, nil
}

// 응답은 JSON 비슷한 작은따옴표 배열. 정규화 후 JSON으로 읽고,
// 실패하면 정규식으로 긁는다.
func parseChart(body string) ([]contracts.Bar, error) {
	body = strings.TrimSpace(body)
	body = strings.ReplaceAll(body, "'", `"`)

	var rows [][]interface{}
	if err := json.Unmarshal([]byte(body), &rows); err == nil {
		return chartRowsToBars(rows), nil
	}
	return chartRegexToBars(body), nil
}

func chartRowsToBars(rows [][]interface{}) []contracts.Bar {
	var bars []contracts.Bar
	for i, row := range rows {
		if i == 0 || len(row) < 6 {
			continue // 헤더 행
		}

		dateStr, ok := row[0].(string)
		if !ok {
			continue
		}
		date, err := parseChartDate(strings.Trim(dateStr, `"`))
		if err != nil {
			continue
		}

		bars = append(bars, contracts.Bar{
			Date:   date,
			Open:   toDecimal(row[1]),
			High:   toDecimal(row[2]),
			Low:    toDecimal(row[3]),
			Close:  toDecimal(row[4]),
			Volume: toDecimal(row[5]),
		})
	}
	return bars
}

var chartRowRe = regexp.MustCompile(`\["(\d{8})",\s*(\d+),\s*(\d+),\s*(\d+),\s*(\d+),\s*(\d+)\]`)

func chartRegexToBars(body string) []contracts.Bar {
	var bars []contracts.Bar
	for _, m := range chartRowRe.FindAllStringSubmatch(body, -1) {
		date, err := parseChartDate(m[1])
		if err != nil {
			continue
		}
		bars = append(bars, contracts.Bar{
			Date:   date,
			Open:   toDecimal(m[2]),
			High:   toDecimal(m[3]),
			Low:    toDecimal(m[4]),
			Close:  toDecimal(m[5]),
			Volume: toDecimal(m[6]),
		})
	}
	return bars
}

func parseChartDate(s string) (time.Time, error) {
	return time.Parse("20060102", s)
}

func toDecimal(v interface{}) decimal.Decimal {
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return decimal.Zero
		}
		return d
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
