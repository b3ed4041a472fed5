package handlers

import (
	"net/http"

	"github.com/wonny/finboard/internal/diagnosis"
	"github.com/wonny/finboard/pkg/logger"
)

// DiagnosisHandler handles the stock diagnosis endpoint
type DiagnosisHandler struct {
	doctor *diagnosis.Doctor
	logger *logger.Logger
}

// NewDiagnosisHandler creates a new diagnosis handler
func NewDiagnosisHandler(d *diagnosis.Doctor, log *logger.Logger) *DiagnosisHandler {
	return &DiagnosisHandler{doctor: d, logger: log}
}

// Diagnose runs the full three-part diagnosis for one stock
// GET /api/diagnosis/{code}
func (h *DiagnosisHandler) Diagnose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code, ok := pathCode(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid stock code (expected 6 digits)")
		return
	}

	result, err := h.doctor.Diagnose(ctx, code)
	if err != nil {
		h.logger.WithError(err).WithField("code", code).Error("종목 진단 실패")
		respondError(w, http.StatusInternalServerError, "Failed to diagnose stock")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
