package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"msme-risk/config"
	httpLayer "msme-risk/http"
	"msme-risk/logger"
	"msme-risk/metrics"
	"msme-risk/repository"
	"msme-risk/service"
)

func main() {
	configPath := flag.String("config", os.Getenv("MSME_CONFIG"), "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("msme-risk: %v", err)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	appLogger, err := logger.Init(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	m := metrics.New()
	checks := map[string]httpLayer.ReadinessCheck{}

	var cache repository.CacheRepository = repository.NewMockCache()
	if cfg.Redis.Enabled {
		redisCache := repository.NewRedisCache(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Redis.TTLDuration())
		defer redisCache.Close()
		checks["redis"] = redisCache.Ping
		cache = redisCache
	}

	var publisher repository.EventPublisher = repository.NoopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher := repository.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, appLogger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	submissionRepo := repository.NewSubmissionRepositoryMemory()
	assessmentService := service.NewAssessmentService(submissionRepo, cache, publisher, m, appLogger)
	aiService := service.NewAIService(service.AIConfig{
		APIKey:    cfg.AI.APIKey,
		APIURL:    cfg.AI.APIURL,
		Model:     cfg.AI.Model,
		MaxTokens: cfg.AI.MaxTokens,
		Timeout:   cfg.AI.TimeoutDuration(),
	}, appLogger)

	routerCfg := httpLayer.RouterConfig{
		Risk:    httpLayer.NewRiskHandler(assessmentService, appLogger, cfg.HTTP.MaxUploadBytes()),
		Explain: httpLayer.NewExplanationHandler(aiService, appLogger),
		Health:  httpLayer.NewHealthHandler(cfg.ServiceName, appLogger, checks),
		Logger:  appLogger,
	}
	if cfg.Metrics.Enabled {
		routerCfg.Metrics = m
		routerCfg.MetricsPath = cfg.Metrics.Path
	}
	if cfg.RateLimit.Enabled {
		rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillDuration())
		defer rateLimiter.Stop()
		routerCfg.RateLimiter = rateLimiter
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Address(),
		Handler:      httpLayer.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTP.ReadTimeoutDuration(),
		WriteTimeout: cfg.HTTP.WriteTimeoutDuration(),
		IdleTimeout:  cfg.HTTP.IdleTimeoutDuration(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("http server listening",
			slog.String("addr", server.Addr),
			slog.String("environment", cfg.Environment),
			slog.Bool("redis", cfg.Redis.Enabled),
			slog.Bool("kafka", cfg.Kafka.Enabled),
			slog.Bool("ai", aiService.Enabled()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeoutDuration())
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	appLogger.Info("server exited")
	return nil
}
