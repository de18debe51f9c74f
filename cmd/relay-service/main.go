package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"futures-relay/internal/relay/config"
	delivery "futures-relay/internal/relay/delivery/http"
	_ "futures-relay/internal/relay/docs"
	"futures-relay/internal/relay/repository"
	"futures-relay/internal/relay/service"
	"futures-relay/pkg/logger"
	"futures-relay/pkg/postgres"
	"futures-relay/pkg/pushover"
	"futures-relay/pkg/redis"
	"futures-relay/pkg/telegram"
	"futures-relay/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the relay service",
	Run:   runServe,
}

func newNotifier(cfg config.Notifier, appLogger *logger.Logger) (service.Notifier, error) {
	switch cfg.Provider {
	case "telegram":
		return telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	case "pushover":
		return pushover.NewClient(cfg.Pushover.BaseURL, cfg.Pushover.Token, cfg.Pushover.User), nil
	default:
		return service.NewLogNotifier(appLogger), nil
	}
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Relay Service",
		logger.Field("name", cfg.App.Name),
		logger.BoolField("live", cfg.Mode.Live),
		logger.BoolField("bullish", cfg.Mode.Bullish),
	)

	// Logged in by the first RefreshContracts below
	broker := repository.NewTastytradeRepository(cfg.Broker, appLogger)

	notifier, err := newNotifier(cfg.Notifier, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize notifier", logger.ErrorField(err))
	}

	// Optional journal sinks
	var (
		sinks     []service.TradeJournal
		eventRepo repository.TradeEventRepository
	)
	if cfg.Database.Enabled {
		db, err := postgres.NewDB(postgres.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			TimeZone:        cfg.Database.TimeZone,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
		}
		if sqlDB, err := db.DB.DB(); err == nil {
			defer sqlDB.Close()
		}
		eventRepo = repository.NewTradeEventRepository(db.DB)
		sinks = append(sinks, eventRepo)
	}
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
		sinks = append(sinks, repository.NewTradeEventStreamRepository(redisClient.Client, cfg.Redis.StreamMaxLen))
	}
	var journal service.TradeJournal
	if len(sinks) > 0 {
		journal = service.NewTradeJournal(appLogger, sinks...)
	}

	relaySvc, err := service.NewRelayService(cfg, broker, notifier, journal, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize relay service", logger.ErrorField(err))
	}
	if err := relaySvc.RefreshContracts(ctx); err != nil {
		appLogger.Fatal("Failed to start broker session", logger.ErrorField(err))
	}

	reconciler := service.NewReconciler(relaySvc, notifier, cfg.Reconciler, appLogger)
	if err := reconciler.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start reconciler", logger.ErrorField(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	relayHandler := delivery.NewRelayHandler(relaySvc, cfg.Security.PayloadToken, appLogger)
	relayHandler.RegisterRoutes(e.Group(""))

	if eventRepo != nil {
		eventHandler := delivery.NewEventHandler(eventRepo, appLogger)
		eventHandler.RegisterRoutes(e.Group("/events"))
	}

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", swagger.WrapHandler)

	utils.GoSafe(appLogger, func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	})

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	select {
	case <-reconciler.Stop().Done():
	case <-shutdownCtx.Done():
		appLogger.Error("Reconciler did not stop in time")
	}

	appLogger.Info("Server exiting")
}

// @title Futures Relay API
// @version 1.0
// @description Webhook-driven futures signal relay with bracket order placement.
// @BasePath /
func main() {
	rootCmd := &cobra.Command{Use: "relay-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-relay.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing relay-service CLI: %s\n", err)
		os.Exit(1)
	}
}
