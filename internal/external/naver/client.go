// Package naver fetches daily prices and investor flows from Naver Finance.
// 엔진에 먹일 데이터를 채우는 얇은 수집 계층이다.
package naver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wonny/finboard/internal/source"
	"github.com/wonny/finboard/pkg/config"
	"github.com/wonny/finboard/pkg/httputil"
	"github.com/wonny/finboard/pkg/logger"
)

// ErrSourceUnavailable is returned without hitting the network once the
// source tracker has latched to UNAVAILABLE
var ErrSourceUnavailable = errors.New("naver finance is marked unavailable")

var browserHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	"Referer":    "https://finance.naver.com/",
}

// Client handles communication with Naver Finance
// ⭐ SSOT: Naver Finance 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	tracker    *source.Tracker

	chartURL string
	pageURL  string
}

// NewClient creates a new Naver Finance client
func NewClient(httpClient *httputil.Client, cfg *config.Config, log *logger.Logger, tracker *source.Tracker) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		tracker:    tracker,
		chartURL:   cfg.Naver.ChartBaseURL,
		pageURL:    cfg.Naver.BaseURL,
	}
}

// InvestorFlow is one day of investor net-buy values, 원 단위
type InvestorFlow struct {
	Code           string
	Date           time.Time
	ForeignNet     int64
	InstitutionNet int64
	IndividualNet  int64
}

// get fetches a URL with browser headers, feeding the availability tracker.
// 403은 차단으로 보고 소스를 내려버린다. 일시 오류는 latch하지 않는다.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if !c.tracker.ShouldAttempt() {
		return nil, ErrSourceUnavailable
	}

	resp, err := c.httpClient.GetWithHeaders(ctx, url, browserHeaders)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		c.tracker.MarkUnavailable(fmt.Sprintf("HTTP %d", resp.StatusCode))
		return nil, fmt.Errorf("blocked by naver finance: status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	c.tracker.MarkAvailable()
	return body, nil
}
