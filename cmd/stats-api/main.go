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
	"github.com/iliyamo/siren-services/internal/database"
	"github.com/iliyamo/siren-services/internal/handler"
	"github.com/iliyamo/siren-services/internal/logging"
	"github.com/iliyamo/siren-services/internal/metrics"
	"github.com/iliyamo/siren-services/internal/middleware"
	"github.com/iliyamo/siren-services/internal/repository"
	"github.com/iliyamo/siren-services/internal/router"
	"github.com/iliyamo/siren-services/internal/service"
)

const serviceName = "stats-api"

func main() {
	cfg, err := config.Load("3002")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	err = run(cfg, logger)
	if err != nil {
		logger.Error("stats-api stopped", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Ping(context.Background(), db); err != nil {
		// Startup continues; /health reports the database as unreachable.
		logger.Warn("database unreachable", zap.Error(err))
	}

	rlCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		return err
	}
	cacheCfg, err := config.LoadCacheConfig()
	if err != nil {
		return err
	}
	redisCfg, err := config.LoadRedisConfig()
	if err != nil {
		return err
	}
	rdb := config.NewRedisClient(redisCfg)
	if rdb == nil {
		logger.Warn("redis unreachable, running without cache and rate limit", zap.String("addr", redisCfg.Addr))
	} else {
		defer func() { _ = rdb.Close() }()
	}

	m := metrics.New(serviceName)
	verifier := service.NewRemoteVerifier(cfg.OAuthURL, cfg.VerifyTimeout)

	e := router.New(logger, m, docs.Stats)
	router.RegisterStats(e, router.Stats{
		Handler:   handler.NewStatsHandler(repository.NewStatsRepo(db)),
		Guard:     middleware.RemoteGuard(verifier, m),
		RateLimit: middleware.NewTokenBucket(rlCfg, rdb, logger),
		Cache:     middleware.NewRedisCache(cacheCfg, rdb, logger),
		Health:    handler.Health{Service: serviceName, Version: cfg.Version, DB: db},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info("token verification", zap.String("issuer", cfg.OAuthURL+service.SecurePath))
	return router.Serve(ctx, e, ":"+cfg.Port, logger)
}
