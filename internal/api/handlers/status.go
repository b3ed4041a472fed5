package handlers

import (
	"net/http"

	"github.com/wonny/finboard/internal/scheduler"
	"github.com/wonny/finboard/internal/source"
	"github.com/wonny/finboard/pkg/database"
	"github.com/wonny/finboard/pkg/logger"
)

// StatusHandler reports the health of the system's moving parts:
// database, external data sources and scheduled jobs
type StatusHandler struct {
	db        *database.DB
	sources   *source.Registry
	scheduler *scheduler.Scheduler
	logger    *logger.Logger
}

// NewStatusHandler creates a new status handler.
// scheduler may be nil when the API runs without the job scheduler.
func NewStatusHandler(db *database.DB, sources *source.Registry,
	sched *scheduler.Scheduler, log *logger.Logger) *StatusHandler {
	return &StatusHandler{db: db, sources: sources, scheduler: sched, logger: log}
}

// Status returns the system status snapshot
// GET /api/status
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbHealth, err := h.db.HealthCheck(ctx)
	if err != nil {
		h.logger.WithError(err).Error("데이터베이스 상태 확인 실패")
	}

	body := map[string]interface{}{
		"database": dbHealth,
		"sources":  h.sources.All(),
	}
	if h.scheduler != nil {
		body["jobs"] = h.scheduler.Stats()
	}

	respondJSON(w, http.StatusOK, body)
}
