package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/finboard/internal/api/handlers"
	"github.com/wonny/finboard/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	screenerHandler *handlers.ScreenerHandler,
	squeezeHandler *handlers.SqueezeHandler,
	diagnosisHandler *handlers.DiagnosisHandler,
	indicatorHandler *handlers.IndicatorHandler,
	statusHandler *handlers.StatusHandler,
	stream *Stream,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Realtime squeeze candidate feed
	r.HandleFunc("/ws", stream.Handle)

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Screener endpoints
	api.HandleFunc("/screener/magic-formula", screenerHandler.MagicFormula).Methods("GET")
	api.HandleFunc("/screener/peg", screenerHandler.LowPEG).Methods("GET")
	api.HandleFunc("/screener/turnaround", screenerHandler.Turnaround).Methods("GET")
	api.HandleFunc("/screener/summary", screenerHandler.Summary).Methods("GET")

	// Short squeeze endpoints
	api.HandleFunc("/squeeze/candidates", squeezeHandler.Candidates).Methods("GET")
	api.HandleFunc("/squeeze/{code}", squeezeHandler.Analyze).Methods("GET")

	// Stock diagnosis
	api.HandleFunc("/diagnosis/{code}", diagnosisHandler.Diagnose).Methods("GET")

	// Technical indicators
	api.HandleFunc("/indicators/{code}", indicatorHandler.Snapshot).Methods("GET")

	// System status
	api.HandleFunc("/status", statusHandler.Status).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "finboard-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
