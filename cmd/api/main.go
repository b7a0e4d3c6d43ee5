package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	httptransport "github.com/helpdeskhq/helpdesk-service/internal/api/http"
	"github.com/helpdeskhq/helpdesk-service/internal/api/http/handlers"
	"github.com/helpdeskhq/helpdesk-service/internal/auth"
	"github.com/helpdeskhq/helpdesk-service/internal/config"
	"github.com/helpdeskhq/helpdesk-service/internal/events"
	"github.com/helpdeskhq/helpdesk-service/internal/notify"
	"github.com/helpdeskhq/helpdesk-service/internal/observability"
	"github.com/helpdeskhq/helpdesk-service/internal/persistence"
	"github.com/helpdeskhq/helpdesk-service/internal/service"
	"github.com/helpdeskhq/helpdesk-service/internal/storage"
	"github.com/helpdeskhq/helpdesk-service/internal/worker"
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

	files, err := persistence.NewFiles(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Fatal("failed to init persistence", zap.Error(err))
	}

	metrics := observability.NewMetrics()

	store, err := storage.New(storage.Options{
		Files:         files,
		Logger:        logger,
		Metrics:       metrics,
		BcryptCost:    cfg.Auth.BcryptCost,
		AdminEmail:    cfg.Admin.Email,
		AdminPassword: cfg.Admin.Password,
	})
	if err != nil {
		logger.Fatal("failed to init storage", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	notifier := notify.NewDiscordNotifier(cfg.Notification.DiscordWebhookURL, logger)
	worker.StartNotifications(dispatcher, notifier, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLMinutes)
	authService := service.NewAuthService(store, tokens, dispatcher, logger)
	ticketService := service.NewTicketService(store, dispatcher, logger)
	chatService := service.NewChatService(store, dispatcher, logger)

	limiterStore := persistence.NewLimiterStore(cfg.Redis, logger)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		JSONEncoder: jsoniter.Marshal,
		JSONDecoder: jsoniter.Unmarshal,
	})

	middlewareCfg := httptransport.MiddlewareConfig{
		Logger:    logger,
		Metrics:   metrics,
		RateLimit: cfg.RateLimit,
		Timeout:   cfg.App.RequestTimeout(),
	}
	if limiterStore != nil {
		middlewareCfg.LimiterStore = limiterStore
	}
	httptransport.RegisterMiddlewares(app, middlewareCfg)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(),
		Auth:           handlers.NewAuthHandler(authService, logger),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Chat:           handlers.NewChatHandler(chatService),
		AuthMiddleware: auth.NewMiddleware(tokens),
		StaticDir:      cfg.App.StaticDir,
	})

	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.App.Addr()),
			zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	if limiterStore != nil {
		_ = limiterStore.Close()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
