package commands

import (
	"fmt"
	"time"

	"github.com/wonny/finboard/internal/diagnosis"
	"github.com/wonny/finboard/internal/external/naver"
	"github.com/wonny/finboard/internal/marketdata"
	"github.com/wonny/finboard/internal/scheduler"
	"github.com/wonny/finboard/internal/scheduler/jobs"
	"github.com/wonny/finboard/internal/screener"
	"github.com/wonny/finboard/internal/signal"
	"github.com/wonny/finboard/internal/source"
	"github.com/wonny/finboard/internal/squeeze"
	"github.com/wonny/finboard/pkg/config"
	"github.com/wonny/finboard/pkg/database"
	"github.com/wonny/finboard/pkg/httputil"
	"github.com/wonny/finboard/pkg/logger"
	"github.com/wonny/finboard/pkg/redis"
)

// app holds the wired dependency graph every command builds on
// ⭐ SSOT: 의존성 조립은 이 파일에서만
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	redis *redis.Client
	cache *redis.Cache

	sources *source.Registry
	naver   *naver.Client

	prices *marketdata.PriceRepository
	funds  *marketdata.FundamentalRepository
	shorts *marketdata.ShortDataRepository
	flows  *marketdata.FlowRepository
	stocks *marketdata.StockRepository

	composer *signal.Composer
	screener *screener.Screener
	squeeze  *squeeze.Analyzer
	doctor   *diagnosis.Doctor
}

// initApp loads config and connects every dependency.
// Redis 연결 실패는 치명적이지 않다: 캐시 없이 동작한다.
func initApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis 연결 실패, 캐시 없이 동작")
		redisClient = redis.Disabled()
	}
	cache := redis.NewCache(redisClient, "finboard")

	// 프로세스 내 토큰버킷에 더해, Redis가 있으면 프로세스 간 공유 리밋도 건다
	httpClient := httputil.New(log).
		WithLocalRateLimit(cfg.Naver.RateLimit, 1)
	if redisClient.Enabled() {
		httpClient = httpClient.WithSharedRateLimit(
			redis.NewRateLimiter(redisClient, "finboard"),
			redis.RateLimitConfig{Key: "naver", Limit: 60, Window: time.Minute},
		)
	}

	sources := source.NewRegistry(log)
	naverClient := naver.NewClient(httpClient, cfg, log, sources.Tracker("naver"))

	prices := marketdata.NewPriceRepository(db.Pool)
	funds := marketdata.NewFundamentalRepository(db.Pool)
	shorts := marketdata.NewShortDataRepository(db.Pool)
	flows := marketdata.NewFlowRepository(db.Pool)
	stocks := marketdata.NewStockRepository(db.Pool)

	composer := signal.NewComposer(log)

	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		redis:    redisClient,
		cache:    cache,
		sources:  sources,
		naver:    naverClient,
		prices:   prices,
		funds:    funds,
		shorts:   shorts,
		flows:    flows,
		stocks:   stocks,
		composer: composer,
		screener: screener.New(funds, cache, cfg, log),
		squeeze:  squeeze.New(shorts, flows, composer, cache, cfg, log),
		doctor:   diagnosis.New(funds, flows, prices, composer, cache, log),
	}, nil
}

// Close releases database and cache connections
func (a *app) Close() {
	a.redis.Close()
	a.db.Close()
}

// newScheduler registers the standard job set.
// broadcaster may be nil; squeeze scan results are then not pushed anywhere.
func (a *app) newScheduler(broadcaster jobs.SqueezeBroadcaster) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log)

	jobList := []scheduler.Job{
		jobs.NewDataCollectJob(a.naver, a.prices, a.flows, a.stocks, a.log),
		jobs.NewScreenRefreshJob(a.screener, a.log),
		jobs.NewSqueezeScanJob(a.squeeze, broadcaster, a.cfg, a.log),
	}
	for _, job := range jobList {
		if err := sched.AddJob(job); err != nil {
			return nil, fmt.Errorf("add job %s: %w", job.Name(), err)
		}
	}

	return sched, nil
}
