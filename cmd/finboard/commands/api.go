package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/finboard/internal/api"
	"github.com/wonny/finboard/internal/api/handlers"
	"github.com/wonny/finboard/internal/scheduler"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 스크리너/스퀴즈/진단 엔드포인트 제공
- 웹소켓 실시간 피드 제공

Endpoints:
  GET /health                      - Health check
  GET /api/screener/magic-formula  - 마법의 공식
  GET /api/screener/peg            - 저PEG 성장주
  GET /api/screener/turnaround     - 턴어라운드
  GET /api/screener/summary        - 대시보드 요약
  GET /api/squeeze/candidates      - 숏스퀴즈 후보
  GET /api/squeeze/{code}          - 종목 스퀴즈 분석
  GET /api/diagnosis/{code}        - 종목 진단
  GET /api/indicators/{code}       - 기술적 지표
  GET /api/status                  - 시스템 상태
  GET /ws                          - 실시간 피드

Example:
  go run ./cmd/finboard api
  go run ./cmd/finboard api --port 8090 --with-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort          string
	apiWithScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT 환경변수)")
	apiCmd.Flags().BoolVar(&apiWithScheduler, "with-scheduler", false, "잡 스케줄러를 같은 프로세스에서 실행")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== finboard API Server ===")

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	stream := api.NewStream(a.log)

	// 스케줄러를 함께 띄우면 스퀴즈 스캔 결과가 웹소켓으로 흐른다
	var sched *scheduler.Scheduler
	if apiWithScheduler {
		sched, err = a.newScheduler(stream)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	router := api.NewRouter(
		handlers.NewScreenerHandler(a.screener, a.cfg, a.log),
		handlers.NewSqueezeHandler(a.squeeze, a.cfg, a.log),
		handlers.NewDiagnosisHandler(a.doctor, a.log),
		handlers.NewIndicatorHandler(a.prices, a.composer, a.cache, a.log),
		handlers.NewStatusHandler(a.db, a.sources, sched, a.log),
		stream,
		a.log,
	)

	server := api.New(a.cfg, a.log, router)

	go func() {
		if err := server.Start(); err != nil {
			a.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
