package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"news_watchdog/internal/config"
	"news_watchdog/internal/notifier"
	"news_watchdog/internal/publisher"
	"news_watchdog/internal/scheduler"
	"news_watchdog/internal/service"
	"news_watchdog/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	format, err := notifier.NewMessageFormat(cfg.Notify.MessageTemplate)
	if err != nil {
		logger.Error("invalid notification template", "error", err)
		os.Exit(1)
	}

	// Notification channels
	channels := notifier.Multi{
		notifier.NewHTTP(notifier.HTTPConfig{
			URL:      cfg.Notify.URL,
			Password: cfg.Notify.Password,
			Timeout:  cfg.Notify.Timeout,
		}, logger),
	}

	if cfg.RabbitMQ.Enabled() {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()

		channels = append(channels, rabbitMQ)
	}

	counter := postgres.NewNewsCounter(cfg.Postgres.DSN)
	checker := service.NewChecker(counter, cfg.Check.QueryTimeout, logger)

	watchService := service.NewWatchService(
		cfg.Targets(),
		checker,
		channels,
		format,
		logger,
		cfg.Check,
	)

	sched := scheduler.NewScheduler(watchService, cfg.Check.Interval, logger,
		scheduler.WithCycleTimeout(cfg.Check.CycleTimeout),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting news watchdog",
		"databases", len(cfg.Databases),
		"server", cfg.Server,
		"interval", cfg.Check.Interval,
		"rabbitmq", cfg.RabbitMQ.Enabled(),
	)

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
