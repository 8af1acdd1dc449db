package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/goodhive/onboarding-service/internal/api/http"
	"github.com/goodhive/onboarding-service/internal/api/http/handlers"
	"github.com/goodhive/onboarding-service/internal/auth"
	"github.com/goodhive/onboarding-service/internal/config"
	"github.com/goodhive/onboarding-service/internal/events"
	"github.com/goodhive/onboarding-service/internal/observability"
	"github.com/goodhive/onboarding-service/internal/persistence"
	"github.com/goodhive/onboarding-service/internal/ratelimit"
	"github.com/goodhive/onboarding-service/internal/repository"
	"github.com/goodhive/onboarding-service/internal/service"
	"github.com/goodhive/onboarding-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	if pg.PoolHandle() == nil {
		logger.Fatal("POSTGRES_DSN is required")
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	dependencies := map[string]handlers.Pinger{"postgres": pg}
	var store ratelimit.Store
	switch cfg.RateLimit.Store {
	case config.RateLimitStoreRedis:
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		dependencies["redis"] = redis
		store = ratelimit.NewRedisStore(redis.Client, cfg.RateLimit.KeyPrefix)
	default:
		store = ratelimit.NewMemoryStore()
	}
	limiter := ratelimit.New(store, ratelimit.Options{Window: cfg.RateLimit.Window(), Max: cfg.RateLimit.Max}, logger)

	metrics := observability.NewMetrics("goodhive")
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	talentRepo := repository.NewTalentRepository(pool)
	companyRepo := repository.NewCompanyRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	authService := service.NewAuthService(cfg.Auth, adminRepo, logger)
	if cfg.Auth.BootstrapAdminEmail != "" {
		if _, err := authService.EnsureAdmin(ctx, cfg.Auth.BootstrapAdminName, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPass); err != nil {
			logger.Fatal("failed to bootstrap admin", zap.Error(err))
		}
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), adminRepo, userRepo)

	approvalService := service.NewApprovalService(service.ApprovalDependencies{
		TxManager:   repository.NewTxManager(pool),
		TalentRepo:  talentRepo,
		CompanyRepo: companyRepo,
		HistoryRepo: repository.NewModerationHistoryRepository(pool),
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})
	statusSyncService := service.NewStatusSyncService(repository.NewStatusSyncRepository(pool), logger)
	searchService := service.NewSearchService(repository.NewJobOfferRepository(pool), talentRepo, logger)
	referralService := service.NewReferralService(repository.NewReferralRepository(pool), logger)

	notificationService := service.NewNotificationService(dispatcher, userRepo, service.LogEmailSender{Logger: logger}, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)
	go worker.NewStatusSyncWorker(statusSyncService, metrics, logger, cfg.App.StatusSyncInterval()).Run(ctx)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Approvals:      handlers.NewApprovalHandler(approvalService),
		Search:         handlers.NewSearchHandler(searchService),
		Referrals:      handlers.NewReferralHandler(referralService),
		Admin:          handlers.NewAdminHandler(authService, statusSyncService),
		AuthMiddleware: authMiddleware,
		Limiter:        limiter,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
