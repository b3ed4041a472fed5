package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/finboard/internal/contracts"
	"github.com/wonny/finboard/internal/squeeze"
	"github.com/wonny/finboard/pkg/config"
	"github.com/wonny/finboard/pkg/logger"
)

// SqueezeBroadcaster pushes scan results to connected clients
type SqueezeBroadcaster interface {
	BroadcastSqueeze(candidates []contracts.SqueezeScore)
}

// SqueezeScanJob scans the short-interest universe for squeeze candidates
// and pushes the result to websocket subscribers
// ⭐ SSOT: 스퀴즈 스캔 스케줄은 이 Job에서만
type SqueezeScanJob struct {
	analyzer    *squeeze.Analyzer
	broadcaster SqueezeBroadcaster
	config      *config.Config
	logger      *logger.Logger
}

// NewSqueezeScanJob creates a new squeeze scan job.
// broadcaster may be nil when no API server is running.
func NewSqueezeScanJob(a *squeeze.Analyzer, b SqueezeBroadcaster, cfg *config.Config, log *logger.Logger) *SqueezeScanJob {
	return &SqueezeScanJob{
		analyzer:    a,
		broadcaster: b,
		config:      cfg,
		logger:      log,
	}
}

// Name returns the job name
func (j *SqueezeScanJob) Name() string {
	return "squeeze_scan"
}

// Schedule runs after the collection job, 평일 오후 6시 30분
func (j *SqueezeScanJob) Schedule() string {
	return "0 30 18 * * MON-FRI"
}

// Run executes the candidate scan
func (j *SqueezeScanJob) Run(ctx context.Context) error {
	candidates, err := j.analyzer.Candidates(ctx, j.config.Screener.DefaultLimit)
	if err != nil {
		return fmt.Errorf("squeeze scan: %w", err)
	}

	if j.broadcaster != nil {
		j.broadcaster.BroadcastSqueeze(candidates)
	}

	j.logger.WithField("candidates", len(candidates)).Info("숏스퀴즈 스캔 완료")
	return nil
}
