// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"eramap/internal/audit"
	"eramap/internal/platform/config"
	"eramap/internal/platform/httpserver"
	"eramap/internal/platform/kafka"
	"eramap/internal/platform/logger"
	"eramap/internal/platform/metrics"
	platformredis "eramap/internal/platform/redis"
	"eramap/internal/ratelimit"
	"eramap/internal/region/ai"
	"eramap/internal/region/handler"
	"eramap/internal/region/service"
	"eramap/internal/region/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	var cacheStore store.CacheStore = store.NewMemoryCacheStore()
	if redisClient != nil {
		cacheStore = store.NewRedisCacheStore(redisClient)
		log.Info("using redis cache store")
	}

	var customStore store.CustomStore = store.NewMemoryCustomStore()
	switch {
	case cfg.PostgresURL != "":
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		customStore, err = store.NewPostgresCustomStore(ctx, pool)
		if err != nil {
			log.Error("failed to initialize postgres custom store", "error", err)
			os.Exit(1)
		}
		log.Info("using postgres custom-mapping store")
	case redisClient != nil:
		customStore = store.NewRedisCustomStore(redisClient)
		log.Info("using redis custom-mapping store")
	}

	var auditSink audit.Sink = audit.NewMemorySink()
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = kafka.NewProducer(cfg.KafkaBrokers, cfg.AuditTopic, log)
		if err != nil {
			log.Error("failed to create kafka producer", "error", err)
			os.Exit(1)
		}
		auditSink = audit.NewKafkaSink(producer)
		log.Info("audit events publishing to kafka", "topic", cfg.AuditTopic)
	}

	aiClient := ai.New(cfg.AI.BaseURL, log, ai.WithTimeout(cfg.AI.Timeout))
	if !aiClient.Enabled() {
		log.Warn("ai lookup is not configured, resolver will degrade to fallback")
	}

	svc, err := service.New(cacheStore, customStore,
		service.WithAI(aiClient),
		service.WithMetrics(m),
		service.WithAudit(audit.NewPublisher(auditSink, log)),
		service.WithLogger(log),
	)
	if err != nil {
		log.Error("failed to build resolver service", "error", err)
		os.Exit(1)
	}

	limiter := ratelimit.New(
		ratelimit.NewInMemoryBucketStore(),
		cfg.RateLimit.Limit,
		cfg.RateLimit.Window,
		log,
		ratelimit.WithOnLimit(m.RateLimited.Inc),
	)

	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	handler.New(svc, aiClient, limiter, cfg.AdminJWTKey, log).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting eramap", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if producer != nil {
			if err := producer.Close(shutdownCtx); err != nil {
				log.Warn("kafka producer close failed", "error", err)
			}
		}
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				log.Warn("redis close failed", "error", err)
			}
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
