package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agentdesk/leads-api/docs"
	"github.com/agentdesk/leads-api/internal/auth"
	"github.com/agentdesk/leads-api/internal/config"
	"github.com/agentdesk/leads-api/internal/database"
	"github.com/agentdesk/leads-api/internal/http/handler"
	"github.com/agentdesk/leads-api/internal/http/middleware"
	"github.com/agentdesk/leads-api/internal/http/router"
	"github.com/agentdesk/leads-api/internal/ingest"
	"github.com/agentdesk/leads-api/internal/jobs"
	"github.com/agentdesk/leads-api/internal/logger"
	"github.com/agentdesk/leads-api/internal/repository"
	"github.com/agentdesk/leads-api/internal/service"
	"github.com/agentdesk/leads-api/internal/storage"
	"github.com/agentdesk/leads-api/internal/telemetry"
	"go.uber.org/zap"
)

// @title Leads API
// @version 1.0
// @description Agents, leads and bulk lead distribution.

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.

const counterReconcileTimeout = 5 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if !basicCfg.App.IsProduction() {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// development reads secrets from the environment, staging and production
	// may resolve them from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	var stopTracing telemetry.Shutdown
	if cfg.Tracing.Enabled {
		stopTracing, err = telemetry.StartTracing(&cfg.Tracing, cfg.App.Environment)
		if err != nil {
			return fmt.Errorf("failed to start tracing: %w", err)
		}
		log.Info("Tracing enabled",
			zap.String("service", cfg.Tracing.ServiceName),
			zap.String("collector", cfg.Tracing.ReporterURI),
		)
	}

	db, err := database.NewDatabase(&cfg.Database, database.Options{Traced: cfg.Tracing.Enabled}, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("Database schema migrated")
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	userRepo := repository.NewUserRepository(db)
	agentRepo := repository.NewAgentRepository(db)
	leadRepo := repository.NewLeadRepository(db)

	tokens := auth.NewTokenManager(&cfg.Auth)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	normalizer := ingest.NewNormalizer(ingest.WithPlaceholderDomain(cfg.Import.PlaceholderDomain))

	authService := service.NewAuthService(userRepo, tokens, hasher, log)
	agentService := service.NewAgentService(agentRepo, leadRepo, hasher, log)
	leadService := service.NewLeadService(db, leadRepo, agentRepo, log)
	importService := service.NewImportService(db, leadRepo, agentRepo, fileStorage, normalizer, log)
	counterService := service.NewCounterService(agentRepo, log)

	authMiddleware := auth.NewMiddleware(tokens, userRepo, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	exposeErrors := !cfg.App.IsProduction()
	rt := router.NewRouter(
		cfg,
		log,
		authMiddleware,
		rateLimiter,
		handler.NewHealthHandler(db, log),
		handler.NewAuthHandler(authService, log, exposeErrors),
		handler.NewAgentHandler(agentService, log, exposeErrors),
		handler.NewLeadHandler(leadService, importService, cfg.Storage.MaxUploadBytes(), log, exposeErrors),
	)

	var scheduler *jobs.Scheduler
	if cfg.Jobs.CounterReconcileEnabled {
		scheduler = jobs.NewScheduler(log)
		job := jobs.NewCounterReconcileJob(counterService, log, counterReconcileTimeout)
		if err := job.Register(scheduler, cfg.Jobs.CounterReconcileCron); err != nil {
			log.Error("Failed to register counter reconcile job", zap.Error(err))
			scheduler = nil
		} else {
			scheduler.Start()
			log.Info("Scheduler started with counter reconcile job",
				zap.String("cron_expr", cfg.Jobs.CounterReconcileCron))
		}
	} else {
		log.Info("Counter reconcile job disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if stopTracing != nil {
			if err := stopTracing(shutdownCtx); err != nil {
				log.Warn("Error flushing traces", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
