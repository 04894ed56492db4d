package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/iliyamo/siren-services/internal/config"
	"github.com/iliyamo/siren-services/internal/logging"
	"github.com/iliyamo/siren-services/internal/queue"
)

func main() {
	// token-audit serves no HTTP; APP_PORT is irrelevant.
	cfg, err := config.Load("0")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("token-audit stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &queue.Consumer{URL: cfg.AMQPURL, LogPath: cfg.AuditLogPath, Logger: logger}
	logger.Info("token-audit started", zap.String("queue", queue.TokenQueueName), zap.String("log_path", cfg.AuditLogPath))
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
