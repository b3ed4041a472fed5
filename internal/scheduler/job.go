package scheduler

import (
	"context"
	"time"
)

// Job represents a scheduled job
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes the job
	Run(ctx context.Context) error

	// Schedule returns the cron expression, seconds field included.
	// 예: "0 0 18 * * MON-FRI"
	Schedule() string
}

// historySize bounds the per-job run records kept in memory
const historySize = 100

// RunRecord is the outcome of one job execution
type RunRecord struct {
	JobName   string        `json:"job_name"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// jobHistory keeps the most recent run records for one job
type jobHistory struct {
	records []RunRecord
}

func (h *jobHistory) add(r RunRecord) {
	h.records = append(h.records, r)
	if len(h.records) > historySize {
		h.records = h.records[len(h.records)-historySize:]
	}
}

func (h *jobHistory) latest(n int) []RunRecord {
	if n > len(h.records) {
		n = len(h.records)
	}
	if n == 0 {
		return []RunRecord{}
	}
	return h.records[len(h.records)-n:]
}

func (h *jobHistory) failureCount() int {
	failed := 0
	for _, r := range h.records {
		if !r.Success {
			failed++
		}
	}
	return failed
}
