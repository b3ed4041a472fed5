// Package jobs holds the concrete scheduled jobs: 데이터 수집, 스크리닝 갱신,
// 숏스퀴즈 스캔.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/finboard/internal/external/naver"
	"github.com/wonny/finboard/internal/marketdata"
	"github.com/wonny/finboard/pkg/logger"
)

// 장 마감 후 최근 5일치를 다시 받아서 정정 반영
const collectLookbackDays = 5

// DataCollectJob pulls daily prices and investor flows for every listed
// stock from Naver Finance into PostgreSQL
// ⭐ SSOT: 일별 데이터 수집 스케줄은 이 Job에서만
type DataCollectJob struct {
	naverClient *naver.Client
	prices      *marketdata.PriceRepository
	flows       *marketdata.FlowRepository
	stocks      *marketdata.StockRepository
	logger      *logger.Logger
}

// NewDataCollectJob creates a new data collection job
func NewDataCollectJob(client *naver.Client, prices *marketdata.PriceRepository,
	flows *marketdata.FlowRepository, stocks *marketdata.StockRepository,
	log *logger.Logger) *DataCollectJob {
	return &DataCollectJob{
		naverClient: client,
		prices:      prices,
		flows:       flows,
		stocks:      stocks,
		logger:      log,
	}
}

// Name returns the job name
func (j *DataCollectJob) Name() string {
	return "data_collect"
}

// Schedule runs after market close, 평일 오후 6시
func (j *DataCollectJob) Schedule() string {
	return "0 0 18 * * MON-FRI"
}

// Run executes the collection
func (j *DataCollectJob) Run(ctx context.Context) error {
	codes, err := j.stocks.Codes(ctx)
	if err != nil {
		return fmt.Errorf("load stock codes: %w", err)
	}

	to := time.Now()
	from := to.AddDate(0, 0, -collectLookbackDays)

	collected := 0
	failed := 0

	for _, code := range codes {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := j.collectStock(ctx, code, from, to); err != nil {
			if errors.Is(err, naver.ErrSourceUnavailable) {
				// 소스가 내려갔으면 나머지 종목도 실패한다
				return err
			}
			j.logger.WithError(err).WithField("code", code).Warn("종목 수집 실패")
			failed++
			continue
		}
		collected++
	}

	j.logger.WithFields(map[string]interface{}{
		"collected": collected,
		"failed":    failed,
		"total":     len(codes),
	}).Info("일별 데이터 수집 완료")
	return nil
}

func (j *DataCollectJob) collectStock(ctx context.Context, code string, from, to time.Time) error {
	bars, err := j.naverClient.FetchDailyBars(ctx, code, from, to)
	if err != nil {
		return fmt.Errorf("fetch bars: %w", err)
	}
	if err := j.prices.SaveBatch(ctx, code, bars); err != nil {
		return fmt.Errorf("save bars: %w", err)
	}

	flows, err := j.naverClient.FetchInvestorFlow(ctx, code, from, to)
	if err != nil {
		return fmt.Errorf("fetch investor flow: %w", err)
	}
	for _, f := range flows {
		if err := j.flows.SaveFlow(ctx, f.Code, f.Date, f.ForeignNet, f.InstitutionNet, f.IndividualNet); err != nil {
			return fmt.Errorf("save investor flow: %w", err)
		}
	}
	return nil
}
