package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finboard/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	err      error
	runs     int
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }
func (j *fakeJob) Run(_ context.Context) error {
	j.runs++
	return j.err
}

func TestJobHistoryKeepsLastHundred(t *testing.T) {
	h := &jobHistory{}
	for i := 0; i < historySize+50; i++ {
		h.add(RunRecord{JobName: fmt.Sprintf("run-%d", i), Success: i%2 == 0})
	}

	assert.Len(t, h.records, historySize)
	assert.Equal(t, "run-149", h.records[len(h.records)-1].JobName)

	latest := h.latest(5)
	assert.Len(t, latest, 5)
	assert.Equal(t, "run-149", latest[4].JobName)

	assert.Empty(t, (&jobHistory{}).latest(3))
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := New(logger.Nop())

	job := &fakeJob{name: "collect", schedule: "0 0 18 * * MON-FRI"}
	require.NoError(t, s.AddJob(job))

	err := s.AddJob(&fakeJob{name: "collect", schedule: "@daily"})
	assert.ErrorContains(t, err, "already exists")

	err = s.AddJob(&fakeJob{name: "broken", schedule: "잘못된 표현식"})
	assert.Error(t, err, "cron 표현식 검증은 등록 시점에")
}

func TestRunJobUnknownName(t *testing.T) {
	s := New(logger.Nop())
	assert.ErrorContains(t, s.RunJob("ghost"), "not found")
}

func TestRunJobRecordsHistory(t *testing.T) {
	s := New(logger.Nop())
	s.maxRetries = 1
	s.retryDelay = time.Millisecond

	ok := &fakeJob{name: "ok", schedule: "0 0 18 * * *"}
	bad := &fakeJob{name: "bad", schedule: "0 0 19 * * *", err: errors.New("수집 실패")}
	require.NoError(t, s.AddJob(ok))
	require.NoError(t, s.AddJob(bad))

	s.runJob(ok)
	s.runJob(bad)

	assert.Equal(t, 1, ok.runs)
	assert.Equal(t, 2, bad.runs, "실패 잡은 maxRetries+1회 실행")

	stats := s.Stats()
	assert.Equal(t, 1, stats["ok"].TotalRuns)
	assert.Equal(t, 0, stats["ok"].FailureCount)
	assert.Equal(t, 1, stats["bad"].FailureCount)
	assert.Equal(t, "수집 실패", stats["bad"].LastError)

	records, err := s.History("bad", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Success)

	_, err = s.History("ghost", 1)
	assert.Error(t, err)
}
