package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/tgdesk/supportbot/internal/api/http"
	"github.com/tgdesk/supportbot/internal/api/http/handlers"
	"github.com/tgdesk/supportbot/internal/bot"
	"github.com/tgdesk/supportbot/internal/config"
	"github.com/tgdesk/supportbot/internal/events"
	"github.com/tgdesk/supportbot/internal/observability"
	"github.com/tgdesk/supportbot/internal/persistence"
	"github.com/tgdesk/supportbot/internal/repository"
	"github.com/tgdesk/supportbot/internal/service"
	"github.com/tgdesk/supportbot/internal/transport/telegram"
	"github.com/tgdesk/supportbot/internal/worker"
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal("failed to connect telegram", zap.Error(err))
	}
	logger.Info("bot authorized", zap.String("username", api.Self.UserName))

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	quickReplyRepo := repository.NewCachedQuickReplyRepository(
		repository.NewQuickReplyRepository(pool), redis.Client, logger)
	statsRepo := repository.NewStatsRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	sender := telegram.NewSender(api)
	relayService := service.NewRelayService(service.RelayDependencies{
		UserRepo:    userRepo,
		TicketRepo:  ticketRepo,
		MessageRepo: messageRepo,
		Sender:      sender,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
		AdminChatID: cfg.Telegram.AdminChatID,
	})
	adminService := service.NewAdminService(service.AdminDependencies{
		UserRepo:       userRepo,
		TicketRepo:     ticketRepo,
		QuickReplyRepo: quickReplyRepo,
		StatsRepo:      statsRepo,
		Relay:          relayService,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})

	router := bot.NewRouter(relayService, adminService, sender, logger)
	poller := telegram.NewPoller(api, router, logger, cfg.Telegram.PollTimeoutSec)
	go poller.Run(ctx)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	statsHandler := handlers.NewStatsHandler(adminService, metrics)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: healthHandler,
		Stats:  statsHandler,
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
