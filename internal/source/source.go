// Package source tracks whether external data sources are usable.
// 한 번 죽은 소스를 계속 두드리지 않도록 상태를 명시적으로 관리한다.
package source

import (
	"sort"
	"sync"
	"time"

	"github.com/wonny/finboard/pkg/logger"
)

// State is the availability of one external data source
type State int

const (
	// StateUnknown means the source has not been probed yet
	StateUnknown State = iota
	// StateAvailable means the last attempt succeeded
	StateAvailable
	// StateUnavailable means the source is down; callers should not retry
	// until the tracker is reset
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateAvailable:
		return "AVAILABLE"
	case StateUnavailable:
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// Tracker owns the availability state of one data source.
// ⭐ SSOT: 소스 가용성 판정/기록은 트래커에서만, atomic 플래그 흩뿌리기 금지
type Tracker struct {
	name string
	log  *logger.Logger

	mu        sync.RWMutex
	state     State
	reason    string
	checkedAt time.Time
}

// NewTracker creates a tracker in the UNKNOWN state
func NewTracker(name string, log *logger.Logger) *Tracker {
	return &Tracker{
		name:  name,
		log:   log,
		state: StateUnknown,
	}
}

// Name returns the source name
func (t *Tracker) Name() string {
	return t.name
}

// State returns the current availability state
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// ShouldAttempt reports whether a call to the source is worth making.
// UNKNOWN 상태에서도 시도한다. 결과로 상태가 확정된다.
func (t *Tracker) ShouldAttempt() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state != StateUnavailable
}

// MarkAvailable records a successful attempt
func (t *Tracker) MarkAvailable() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateUnavailable {
		t.log.WithField("source", t.name).Info("데이터 소스 복구됨")
	}
	t.state = StateAvailable
	t.reason = ""
	t.checkedAt = time.Now()
}

// MarkUnavailable records a permanent-looking failure. Logged once per
// transition, repeat calls just refresh the timestamp.
func (t *Tracker) MarkUnavailable(reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateUnavailable {
		t.log.WithFields(map[string]interface{}{
			"source": t.name,
			"reason": reason,
		}).Warn("데이터 소스 사용 불가 처리")
	}
	t.state = StateUnavailable
	t.reason = reason
	t.checkedAt = time.Now()
}

// Reset puts the tracker back to UNKNOWN so the next caller retries.
// 운영자가 수동 복구했을 때 사용한다.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = StateUnknown
	t.reason = ""
	t.checkedAt = time.Time{}
	t.log.WithField("source", t.name).Info("데이터 소스 상태 초기화")
}

// Status is a point-in-time snapshot for the status API
type Status struct {
	Name      string    `json:"name"`
	State     string    `json:"state"`
	Reason    string    `json:"reason,omitempty"`
	CheckedAt time.Time `json:"checked_at,omitempty"`
}

// Status returns a snapshot of the tracker
func (t *Tracker) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Status{
		Name:      t.name,
		State:     t.state.String(),
		Reason:    t.reason,
		CheckedAt: t.checkedAt,
	}
}

// Registry holds the trackers for every external source the process talks to
type Registry struct {
	mu       sync.RWMutex
	trackers map[string]*Tracker
	log      *logger.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		trackers: make(map[string]*Tracker),
		log:      log,
	}
}

// Tracker returns the tracker for a source, creating it on first use
func (r *Registry) Tracker(name string) *Tracker {
	r.mu.RLock()
	t, ok := r.trackers[name]
	r.mu.RUnlock()
	if ok {
		return t
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.trackers[name]; ok {
		return t
	}
	t = NewTracker(name, r.log)
	r.trackers[name] = t
	return t
}

// All returns a snapshot of every tracker, sorted by name
func (r *Registry) All() []Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make([]Status, 0, len(r.trackers))
	for _, t := range r.trackers {
		statuses = append(statuses, t.Status())
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}
