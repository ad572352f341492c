package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seatcheck/internal/audit"
	catalogCache "seatcheck/internal/catalog/cache"
	catalogHandler "seatcheck/internal/catalog/handler"
	catalogMetrics "seatcheck/internal/catalog/metrics"
	catalogService "seatcheck/internal/catalog/service"
	catalogStore "seatcheck/internal/catalog/store"
	"seatcheck/internal/platform/config"
	"seatcheck/internal/platform/httpserver"
	"seatcheck/internal/platform/logger"
	"seatcheck/internal/platform/metrics"
	"seatcheck/internal/platform/middleware"
	"seatcheck/internal/platform/postgres"
	platformRedis "seatcheck/internal/platform/redis"
	httptransport "seatcheck/internal/transport/http"
	verificationHandler "seatcheck/internal/verification/handler"
	verificationMetrics "seatcheck/internal/verification/metrics"
	verificationModel "seatcheck/internal/verification/models"
	verificationService "seatcheck/internal/verification/service"
	verificationStore "seatcheck/internal/verification/store"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.Postgres)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := verificationStore.EnsureSchema(ctx, db); err != nil {
		log.Error("schema migration failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := platformRedis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Audit pipeline: non-blocking publisher, worker drains to the in-memory
	// trail and, when brokers are configured, to Kafka.
	publisher := audit.NewPublisher(256, func() {
		log.Warn("audit event dropped, inbox full")
	})
	auditStore := audit.NewInMemoryStore()
	var sink audit.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("kafka sink setup failed", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sink = kafkaSink
	}
	worker := audit.NewWorker(auditStore, sink, publisher.Inbox(), log)
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	defaultStrategy, err := verificationModel.ParseStrategy(cfg.Verification.DefaultStrategy)
	if err != nil {
		log.Error("invalid default sampling strategy", "error", err)
		os.Exit(1)
	}

	vStore := verificationStore.NewPostgres(db)
	vService := verificationService.NewService(vStore,
		verificationService.WithMetrics(verificationMetrics.New()),
		verificationService.WithAuditTrail(publisher),
	)
	vHandler := verificationHandler.New(vService, log, cfg.Verification.DefaultSampleRate, defaultStrategy)

	cStore := catalogStore.NewPostgres(db)
	catalogOpts := []catalogService.Option{
		catalogService.WithMetrics(catalogMetrics.New()),
	}
	if redisClient != nil {
		catalogOpts = append(catalogOpts,
			catalogService.WithCache(catalogCache.NewEligibility(redisClient.Client, cfg.Catalog.CacheTTL)))
	}
	cService := catalogService.NewService(cStore, catalogOpts...)
	cHandler := catalogHandler.New(cService, log)

	var rateCounter middleware.Counter = middleware.NewMemoryCounter()
	if redisClient != nil {
		rateCounter = middleware.NewRedisCounter(redisClient.Client)
	}
	router := httptransport.NewRouter(log, metrics.New(), httptransport.RouterConfig{
		JWTSigningKey: cfg.Server.JWTSigningKey,
		RateLimit:     middleware.RateLimit(rateCounter, cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window, log),
		Health: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return err
			}
			if redisClient != nil {
				return redisClient.Health(ctx)
			}
			return nil
		},
	}, vHandler, cHandler)
	srv := httpserver.New(cfg.Server.Addr, router)

	go func() {
		log.Info("starting seatcheck", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("seatcheck stopped")
}
