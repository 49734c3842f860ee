package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/mediaportal/portal-backend/internal/app"
	"github.com/mediaportal/portal-backend/internal/config"
	"github.com/mediaportal/portal-backend/internal/jobs"
	"github.com/mediaportal/portal-backend/internal/mail"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	cfg, err := config.Load(config.PathForEnv(env))
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to load config")
	}
	pkglogger.Init(cfg.Server.LogLevel)
	config.LogResolved(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra, err := app.Open(ctx, cfg)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to open infrastructure")
	}
	defer infra.Close()
	if infra.Redis == nil {
		pkglogger.GetLogger().Fatal().Msg("worker requires Redis")
	}

	// 워커는 WebSocket 연결이 없으므로 알림 push 없이 구성
	svcs := app.NewServices(cfg, infra, nil)

	var mailer jobs.Mailer = mail.LogMailer{}
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTP)
	}

	handlers := &jobs.Handlers{
		Mailer:    mailer,
		Images:    svcs.Gallery,
		Indexer:   svcs.Search,
		Publisher: svcs.Registry,
	}
	mux := asynq.NewServeMux()
	handlers.Register(mux)

	srv := jobs.NewServer(app.RedisConnOpt(cfg), jobs.ServerConfig{
		Concurrency: cfg.Queue.Concurrency,
		Backoff:     cfg.Queue.Backoff(),
	})
	if err := srv.Start(mux); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to start worker")
	}

	// 주기 작업: 예약 발행 sweep, 만료 세션 정리, 버전 정리
	scheduler := jobs.NewScheduler(15 * time.Second)
	scheduler.Register("publish-due", time.Duration(cfg.Queue.SweepSeconds)*time.Second, func(ctx context.Context) error {
		n, err := svcs.Registry.PublishDue(ctx)
		if n > 0 {
			pkglogger.GetLogger().Info().Int("published", n).Msg("scheduled content published")
		}
		return err
	})
	scheduler.Register("purge-sessions", time.Hour, func(ctx context.Context) error {
		_, err := svcs.Auth.PurgeExpiredSessions(ctx)
		return err
	})
	scheduler.Register("prune-versions", 24*time.Hour, func(ctx context.Context) error {
		_, err := svcs.Versions.PruneAll(ctx, cfg.Versioning.KeepCount)
		return err
	})
	scheduler.Start(ctx)

	metricsAddr := os.Getenv("WORKER_METRICS_ADDR")
	if metricsAddr == "" {
		metricsAddr = ":9091"
	}
	metricsSrv := &http.Server{Addr: metricsAddr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pkglogger.Warn("metrics server: %v", err)
		}
	}()

	pkglogger.Info("Worker started (concurrency=%d)", cfg.Queue.Concurrency)
	<-ctx.Done()

	pkglogger.Info("Shutting down worker...")
	scheduler.Stop()
	srv.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
}
