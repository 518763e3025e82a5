// Package main - точка входа для фонового воркера CareerForge.
//
// Worker отвечает за поддержание актуальности карьерных баллов:
// - Периодическая синхронизация GitHub-статистики подключённых пользователей
// - Выдача бейджей по результатам свежих данных
// - Пересчёт агрегированного балла и обновление лидерборда
//
// Балл - витрина профиля: резюме, GitHub-активность и достижения сводятся
// в одно число, поэтому воркер обязан держать все три источника свежими.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/careerforge/careerforge-backend/config"
	"github.com/careerforge/careerforge-backend/internal/application/badges"
	"github.com/careerforge/careerforge-backend/internal/application/scoring"
	"github.com/careerforge/careerforge-backend/internal/infrastructure/external/github"
	"github.com/careerforge/careerforge-backend/internal/infrastructure/persistence/postgres"
	"github.com/careerforge/careerforge-backend/internal/infrastructure/persistence/redis"
	"github.com/careerforge/careerforge-backend/internal/infrastructure/scheduler"
	"github.com/careerforge/careerforge-backend/internal/infrastructure/scheduler/jobs"
	"github.com/careerforge/careerforge-backend/pkg/logger"
	"github.com/careerforge/careerforge-backend/pkg/metrics"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	logFormat := logger.FormatJSON
	if cfg.IsDevelopment() && cfg.Observability.LogFormat != string(logger.FormatJSON) {
		logFormat = logger.FormatText
	}

	log := logger.Setup(logger.Options{
		Level:   cfg.Observability.LogLevel,
		Format:  logFormat,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
	})

	log.Info("starting CareerForge scoring worker",
		"env", string(cfg.App.Environment),
		"debug", cfg.App.Debug,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. МИГРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.RunMigrations {
		log.Info("checking database migrations...")
		if err := postgres.Migrate(ctx, dbConn); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("database schema is up to date")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS (опционально: кеш брейкдаунов + лидерборд)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		breakdownCache scoring.BreakdownCache
		leaderboard    scoring.LeaderboardUpdater
	)

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err := redis.NewCache(redisCfg)
		if err != nil {
			// The worker degrades gracefully: scores stay correct, only the
			// display projections go cold.
			log.Warn("failed to connect to Redis, cache and leaderboard disabled", "error", err)
		} else {
			defer redisCache.Close()
			breakdownCache = redis.NewBreakdownCache(redisCache, log)
			leaderboard = redis.NewScoreLeaderboard(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. РЕПОЗИТОРИИ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	scoreRepo := postgres.NewScoreRepository(dbConn)
	awardRepo := postgres.NewBadgeAwardRepository(dbConn)
	definitionRepo := postgres.NewBadgeDefinitionRepository(dbConn)
	resumeRepo := postgres.NewResumeRepository(dbConn)
	githubRepo := postgres.NewGitHubRepository(dbConn)
	connectionRepo := postgres.NewConnectionRepository(dbConn)
	skillGapRepo := postgres.NewSkillGapRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ЯДРО: КАЛЬКУЛЯТОРЫ, АГРЕГАТОР, БЕЙДЖИ
	// ─────────────────────────────────────────────────────────────────────────
	aggregator := scoring.NewAggregator(
		scoreRepo,
		scoring.NewATSCalculator(resumeRepo),
		scoring.NewGitHubCalculator(githubRepo),
		scoring.NewBadgeCalculator(awardRepo),
		breakdownCache,
		leaderboard,
		log,
	)

	snapshots := badges.NewSnapshotLoader(resumeRepo, githubRepo, connectionRepo, skillGapRepo)
	awarder := badges.NewAwarder(awardRepo, definitionRepo, snapshots, log)
	sweep := badges.NewSweep(awarder, definitionRepo, snapshots, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. GITHUB API КЛИЕНТ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing GitHub client...")
	githubCfg := github.DefaultClientConfig(cfg.GitHub.Token)
	githubCfg.BaseURL = cfg.GitHub.BaseURL
	githubCfg.Timeout = cfg.GitHub.RequestTimeout
	githubCfg.Logger = log
	githubCfg.Debug = cfg.App.Debug
	githubCfg.RateLimiterConfig.RequestsPerSecond = cfg.GitHub.RateLimit
	githubCfg.RateLimiterConfig.BurstSize = cfg.GitHub.RateLimitBurst
	githubCfg.RetryConfig.MaxRetries = cfg.GitHub.MaxRetries
	githubCfg.RetryConfig.InitialBackoff = cfg.GitHub.RetryBaseDelay
	githubCfg.RetryConfig.MaxBackoff = cfg.GitHub.RetryMaxDelay
	githubCfg.CircuitBreakerConfig.FailureThreshold = cfg.GitHub.CircuitBreakerThreshold
	githubCfg.CircuitBreakerConfig.Timeout = cfg.GitHub.CircuitBreakerTimeout
	githubCfg.CircuitBreakerConfig.HalfOpenMaxRetries = cfg.GitHub.CircuitBreakerHalfOpenMax
	githubClient := github.NewClient(githubCfg)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ПЛАНИРОВЩИК И ЗАДАЧИ
	// ─────────────────────────────────────────────────────────────────────────
	sched := scheduler.New(scheduler.Config{Logger: log})

	syncJob := jobs.NewSyncConnectedUsersJob(
		githubRepo,
		githubClient,
		sweep,
		aggregator,
		scheduler.RealClock(),
		log,
		jobs.SyncConfig{
			BatchSize:       cfg.Scheduler.SyncBatchSize,
			BatchPause:      cfg.Scheduler.SyncBatchPause,
			MinSyncInterval: cfg.Scheduler.MinSyncInterval,
			Timeout:         cfg.Scheduler.SyncTimeout,
		},
	)

	syncSchedule := scheduler.NewDelayedIntervalSchedule(
		cfg.Scheduler.SyncInitialDelay,
		cfg.Scheduler.SyncInterval,
	)

	if err := sched.Register(syncJob, syncSchedule); err != nil {
		return fmt.Errorf("failed to register sync job: %w", err)
	}

	if cfg.Scheduler.Enabled {
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	} else {
		log.Warn("scheduler is disabled, no jobs will run")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. МЕТРИКИ (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var metricsServer *http.Server
	if cfg.Observability.MetricsEnabled {
		metricsServer = startMetricsServer(cfg.Observability.MetricsPort, log)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("CareerForge scoring worker is running",
		"sync_schedule", syncSchedule.String(),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigCh
	log.Info("received shutdown signal", "signal", sig.String())
	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if sched.IsRunning() {
		if err := sched.Stop(); err != nil {
			log.Warn("scheduler stop failed", "error", err)
		}
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown failed", "error", err)
		}
	}

	log.Info("shutdown completed successfully")
	return nil
}

// startMetricsServer exposes the Prometheus registry on /metrics.
func startMetricsServer(port int, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("metrics server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server failed", "error", err)
		}
	}()

	return srv
}
