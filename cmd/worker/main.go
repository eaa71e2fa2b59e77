package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/wxllspace/wxllspace-backend/config"
	"github.com/wxllspace/wxllspace-backend/internal/bootstrap"
	"github.com/wxllspace/wxllspace-backend/internal/logging"
	"github.com/wxllspace/wxllspace-backend/internal/stats"
)

// The worker keeps the landing-page counters warm. Run with "once" to
// refresh a single time and exit.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.Init(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN(), MaxConns: 2})
	if err != nil {
		logger.Fatal("db connection failed", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	defer rdb.Close()

	svc := stats.NewService(stats.NewPGCounter(pool), rdb, cfg.Stats.CacheTTL)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "once":
			if _, err := svc.Refresh(ctx); err != nil {
				logger.Fatal("stats refresh failed", zap.Error(err))
			}
			return
		default:
			logger.Fatal("unknown command", zap.String("command", os.Args[1]))
		}
	}

	scheduler := stats.NewScheduler(svc)
	if err := scheduler.Start(cfg.Stats.RefreshSpec); err != nil {
		logger.Fatal("scheduler", zap.Error(err))
	}

	<-ctx.Done()
	<-scheduler.Stop().Done()
	logger.Info("worker stopped")
}
