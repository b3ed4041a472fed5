package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/finboard/internal/screener"
	"github.com/wonny/finboard/pkg/logger"
)

// ScreenRefreshJob reruns every screener after the nightly collection so
// the first morning request hits a warm cache
// ⭐ SSOT: 스크리닝 갱신 스케줄은 이 Job에서만
type ScreenRefreshJob struct {
	screener *screener.Screener
	logger   *logger.Logger
}

// NewScreenRefreshJob creates a new screening refresh job
func NewScreenRefreshJob(s *screener.Screener, log *logger.Logger) *ScreenRefreshJob {
	return &ScreenRefreshJob{screener: s, logger: log}
}

// Name returns the job name
func (j *ScreenRefreshJob) Name() string {
	return "screen_refresh"
}

// Schedule runs after data collection, 평일 오후 7시
func (j *ScreenRefreshJob) Schedule() string {
	return "0 0 19 * * MON-FRI"
}

// Run executes all screeners once
func (j *ScreenRefreshJob) Run(ctx context.Context) error {
	summary, err := j.screener.Summary(ctx)
	if err != nil {
		return fmt.Errorf("refresh screeners: %w", err)
	}

	j.logger.WithField("screeners", len(summary)).Info("스크리닝 갱신 완료")
	return nil
}
