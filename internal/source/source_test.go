package source

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/finboard/pkg/logger"
)

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker("naver", logger.Nop())

	// 미확인 상태에서는 시도해본다
	assert.Equal(t, StateUnknown, tr.State())
	assert.True(t, tr.ShouldAttempt())

	tr.MarkAvailable()
	assert.Equal(t, StateAvailable, tr.State())
	assert.True(t, tr.ShouldAttempt())

	tr.MarkUnavailable("HTTP 403")
	assert.Equal(t, StateUnavailable, tr.State())
	assert.False(t, tr.ShouldAttempt(), "죽은 소스는 재시도 안 함")

	status := tr.Status()
	assert.Equal(t, "naver", status.Name)
	assert.Equal(t, "UNAVAILABLE", status.State)
	assert.Equal(t, "HTTP 403", status.Reason)
	assert.False(t, status.CheckedAt.IsZero())

	tr.Reset()
	assert.Equal(t, StateUnknown, tr.State())
	assert.True(t, tr.ShouldAttempt())
	assert.Empty(t, tr.Status().Reason)
}

func TestTrackerRecovery(t *testing.T) {
	tr := NewTracker("krx", logger.Nop())

	tr.MarkUnavailable("timeout")
	tr.MarkAvailable()

	assert.Equal(t, StateAvailable, tr.State())
	assert.Empty(t, tr.Status().Reason)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "UNKNOWN", StateUnknown.String())
	assert.Equal(t, "AVAILABLE", StateAvailable.String())
	assert.Equal(t, "UNAVAILABLE", StateUnavailable.String())
}

func TestRegistryReturnsSameTracker(t *testing.T) {
	r := NewRegistry(logger.Nop())

	a := r.Tracker("naver")
	b := r.Tracker("naver")
	assert.Same(t, a, b)

	a.MarkUnavailable("blocked")
	assert.False(t, r.Tracker("naver").ShouldAttempt())
}

func TestRegistryAllSorted(t *testing.T) {
	r := NewRegistry(logger.Nop())
	r.Tracker("naver").MarkAvailable()
	r.Tracker("dart")
	r.Tracker("krx").MarkUnavailable("closed")

	all := r.All()
	assert.Len(t, all, 3)
	assert.Equal(t, "dart", all[0].Name)
	assert.Equal(t, "krx", all[1].Name)
	assert.Equal(t, "naver", all[2].Name)
	assert.Equal(t, "UNKNOWN", all[0].State)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry(logger.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			tr := r.Tracker("naver")
			if n%2 == 0 {
				tr.MarkAvailable()
			} else {
				tr.MarkUnavailable("flaky")
			}
			_ = tr.ShouldAttempt()
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.All(), 1)
}
