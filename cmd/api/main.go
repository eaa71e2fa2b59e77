package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wxllspace/wxllspace-backend/config"
	"github.com/wxllspace/wxllspace-backend/internal/api/http/routes"
	"github.com/wxllspace/wxllspace-backend/internal/bootstrap"
	"github.com/wxllspace/wxllspace-backend/internal/catalog"
	"github.com/wxllspace/wxllspace-backend/internal/dashboard"
	"github.com/wxllspace/wxllspace-backend/internal/logging"
	"github.com/wxllspace/wxllspace-backend/internal/notify"
	projectrepo "github.com/wxllspace/wxllspace-backend/internal/projects/repository"
	projectsvc "github.com/wxllspace/wxllspace-backend/internal/projects/service"
	proposalrepo "github.com/wxllspace/wxllspace-backend/internal/proposals/repository"
	proposalsvc "github.com/wxllspace/wxllspace-backend/internal/proposals/service"
	"github.com/wxllspace/wxllspace-backend/internal/session"
	"github.com/wxllspace/wxllspace-backend/internal/site"
	"github.com/wxllspace/wxllspace-backend/internal/stats"
	"github.com/wxllspace/wxllspace-backend/internal/storage/postgres"
	"github.com/wxllspace/wxllspace-backend/internal/users"
	"github.com/wxllspace/wxllspace-backend/internal/wizard"
)

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
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN(), MaxConns: int32(cfg.Database.MaxConns)})
	if err != nil {
		logger.Fatal("db connection failed", zap.Error(err))
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	sqlDB, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("db connection failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	defer rdb.Close()

	provider, err := bootstrap.NewIdentityProvider(ctx, cfg, sqlDB, rdb)
	if err != nil {
		logger.Fatal("identity provider", zap.Error(err))
	}
	blobs, err := bootstrap.NewObjectStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("object storage", zap.Error(err))
	}
	cat, err := catalog.Load()
	if err != nil {
		logger.Fatal("catalog", zap.Error(err))
	}

	accounts := users.NewRepo(sqlDB)
	sessions := session.NewService(provider, accounts)
	publisher := notify.NewPublisher(rdb)

	projectStore := projectrepo.New(pool)
	projects := projectsvc.NewProjectService(projectStore)
	statsService := stats.NewService(stats.NewPGCounter(pool), rdb, cfg.Stats.CacheTTL)
	dash := dashboard.NewService(projects, accounts, publisher, sessions)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    cfg.App.ServiceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AuthRateLimit:  cfg.Auth.RateLimit,
		AuthRateBurst:  cfg.Auth.RateBurst,
		DB:             pool,
		Redis:          rdb,
		API: routes.V1Deps{
			Sessions:      sessions,
			Stats:         statsService,
			Dashboard:     dash,
			Projects:      projects,
			Proposals:     proposalsvc.NewProposalService(proposalrepo.New(sqlDB), publisher),
			Wizard:        wizard.NewService(wizard.NewDraftStore(rdb), blobs, projectStore, cfg.Storage.PresignTTL),
			Notifications: publisher,
		},
		Site: site.New(cat, statsService, dash),
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("api listening", zap.String("addr", httpServer.Addr), zap.String("env", cfg.App.Environment))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("api stopped")
}
