package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/agent"
	httptransport "github.com/spec-kit/support-agent/internal/api/http"
	"github.com/spec-kit/support-agent/internal/api/http/handlers"
	"github.com/spec-kit/support-agent/internal/auth"
	"github.com/spec-kit/support-agent/internal/config"
	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/erp"
	"github.com/spec-kit/support-agent/internal/events"
	"github.com/spec-kit/support-agent/internal/observability"
	"github.com/spec-kit/support-agent/internal/oracle"
	"github.com/spec-kit/support-agent/internal/persistence"
	"github.com/spec-kit/support-agent/internal/repository"
	"github.com/spec-kit/support-agent/internal/service"
	"github.com/spec-kit/support-agent/internal/tools"
	"github.com/spec-kit/support-agent/internal/worker"
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

	pool := pg.PoolHandle()
	if pool != nil && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var ticketRepo repository.TicketRepository
	if pool != nil {
		ticketRepo = repository.NewTicketRepository(pool)
	} else {
		ticketRepo = repository.NewMemoryTicketRepository()
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notifications.RegisterHandlers()

	erpStore := erp.NewStore()
	registry := tools.NewRegistry(erpStore)
	oracleClient := oracle.NewClient(cfg.Oracle.BaseURL, cfg.Oracle.APIKey, cfg.Oracle.Model, cfg.Oracle.Timeout(), logger)

	loop := agent.NewLoop(oracleClient, registry, cfg.Agent.MaxIterations, logger)
	workflow := agent.NewWorkflow(oracleClient, domain.DefaultPolicyCatalog(), loop, logger)

	processor := worker.NewProcessor(ticketRepo, workflow, dispatcher, metrics, logger, cfg.Agent.MaxConcurrent)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Enqueuer:   processor,
		Cache:      redis.Client,
		CacheTTL:   cfg.Redis.TicketCacheTTL(),
		Logger:     logger,
	})

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLMinutes)
	authMiddleware := auth.NewMiddleware(tokenManager, cfg.Auth.Enabled)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	ticketsHandler := handlers.NewTicketsHandler(ticketService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Tickets:        ticketsHandler,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()

	// Let in-flight tickets run to a terminal state before exiting.
	processor.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
