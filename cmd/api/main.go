package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agrihub/agrihub-backend/api/routes"
	"github.com/agrihub/agrihub-backend/internal/audit"
	authsvc "github.com/agrihub/agrihub-backend/internal/auth"
	"github.com/agrihub/agrihub-backend/internal/columns"
	"github.com/agrihub/agrihub-backend/internal/cron"
	"github.com/agrihub/agrihub-backend/internal/importer"
	"github.com/agrihub/agrihub-backend/internal/products"
	"github.com/agrihub/agrihub-backend/internal/sessions"
	"github.com/agrihub/agrihub-backend/internal/stats"
	"github.com/agrihub/agrihub-backend/internal/uploads"
	"github.com/agrihub/agrihub-backend/internal/users"
	"github.com/agrihub/agrihub-backend/pkg/config"
	"github.com/agrihub/agrihub-backend/pkg/db"
	"github.com/agrihub/agrihub-backend/pkg/logger"
	"github.com/agrihub/agrihub-backend/pkg/metrics"
	"github.com/agrihub/agrihub-backend/pkg/migrate"
	"github.com/agrihub/agrihub-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gdb := dbClient.DB()
	userRepo := users.NewRepository(gdb)
	sessionRepo := sessions.NewRepository(gdb)
	productRepo := products.NewRepository(gdb)
	columnRepo := columns.NewRepository(gdb)
	uploadRepo := uploads.NewRepository(gdb)
	auditRepo := audit.NewRepository(gdb)

	auditService := audit.NewService(auditRepo, logg)

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		Audit:       auditService,
		Metrics:     metrics.NewAuthMetrics(prometheus.DefaultRegisterer),
		JWTConfig:   cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(users.ServiceParams{
		Repo:     userRepo,
		Sessions: sessionRepo,
		Audit:    auditService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.ServiceParams{
		Repo:  productRepo,
		Audit: auditService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	columnService, err := columns.NewService(columns.ServiceParams{
		Repo:  columnRepo,
		Audit: auditService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create columns service", err)
		os.Exit(1)
	}

	statsService, err := stats.NewService(stats.ServiceParams{
		Repo:    stats.NewRepository(gdb),
		Uploads: uploadRepo,
		Audits:  auditRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	importEngine, err := importer.NewEngine(importer.EngineParams{
		Products: productRepo,
		History:  uploadRepo,
		Columns:  columnRepo,
		Audit:    auditService,
		Metrics:  metrics.NewImportMetrics(prometheus.DefaultRegisterer),
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create import engine", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startSessionSweep(ctx, cfg, logg, redisClient, sessionRepo)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Auth:     authService,
			Users:    userService,
			UserRepo: userRepo,
			Products: productService,
			Columns:  columnService,
			Stats:    statsService,
			Audit:    auditService,
			Uploads:  uploadRepo,
			Importer: importEngine,
		}),
	}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(logCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// startSessionSweep runs the expired-session sweep on its own goroutine so a
// single api instance also handles the housekeeping. The redis lock keeps
// multiple replicas from sweeping at once.
func startSessionSweep(ctx context.Context, cfg *config.Config, logg *logger.Logger, redisClient *redis.Client, sessionRepo *sessions.Repository) {
	sweepJob, err := cron.NewSessionCleanupJob(cron.SessionCleanupJobParams{
		Logger:   logg,
		Sessions: sessionRepo,
	})
	if err != nil {
		logg.Error(ctx, "failed to create session cleanup job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.CronLockKey("session-cleanup"), 0)
	if err != nil {
		logg.Error(ctx, "failed to create cron lock", err)
		os.Exit(1)
	}

	cronService, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(sweepJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.SessionSweepInterval,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cron service", err)
		os.Exit(1)
	}

	go func() {
		if err := cronService.Run(ctx); err != nil && err != context.Canceled {
			logg.Error(ctx, "cron service stopped unexpectedly", err)
		}
	}()
}
