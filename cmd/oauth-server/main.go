package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/iliyamo/siren-services/docs"
	"github.com/iliyamo/siren-services/internal/config"
	"github.com/iliyamo/siren-services/internal/handler"
	"github.com/iliyamo/siren-services/internal/logging"
	"github.com/iliyamo/siren-services/internal/metrics"
	"github.com/iliyamo/siren-services/internal/middleware"
	"github.com/iliyamo/siren-services/internal/repository"
	"github.com/iliyamo/siren-services/internal/router"
	"github.com/iliyamo/siren-services/internal/service"
)

const serviceName = "oauth-server"

func main() {
	cfg, err := config.Load("3000")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	err = run(cfg, logger)
	if err != nil {
		logger.Error("oauth-server stopped", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	clients, users, err := config.LoadCredentials(cfg.CredentialsFile, cfg.BcryptCost)
	if err != nil {
		return err
	}
	creds, err := repository.NewCredentialStore(clients, users)
	if err != nil {
		return err
	}
	logger.Info("credentials loaded", zap.Int("clients", len(clients)), zap.Int("users", len(users)))

	tokens := repository.NewTokenStore()
	grants := service.NewGrantProcessor(creds, tokens,
		service.WithTTL(cfg.AccessTokenTTL, cfg.RefreshTokenTTL))

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.AMQPURL != "" {
		pub := service.NewAMQPPublisher(cfg.AMQPURL)
		defer func() { _ = pub.Close() }()
		events = pub
	}

	rlCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		return err
	}
	redisCfg, err := config.LoadRedisConfig()
	if err != nil {
		return err
	}
	rdb := config.NewRedisClient(redisCfg)
	if rdb == nil {
		logger.Warn("redis unreachable, token endpoint is not rate limited", zap.String("addr", redisCfg.Addr))
	} else {
		defer func() { _ = rdb.Close() }()
	}

	m := metrics.New(serviceName)
	e := router.New(logger, m, docs.OAuth)
	router.RegisterOAuth(e, router.OAuth{
		Token:     handler.NewTokenHandler(grants, events, m, logger),
		Tokens:    tokens,
		RateLimit: middleware.NewTokenBucket(rlCfg, rdb, logger),
		Health:    handler.Health{Service: serviceName, Version: cfg.Version, Tokens: tokens.Len},
		Metrics:   m,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return router.Serve(ctx, e, ":"+cfg.Port, logger)
}
