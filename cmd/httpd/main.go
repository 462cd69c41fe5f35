package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/shopsleuth/engine/internal/api"
	"github.com/shopsleuth/engine/internal/authenticity"
	"github.com/shopsleuth/engine/internal/config"
	"github.com/shopsleuth/engine/internal/database"
	"github.com/shopsleuth/engine/internal/fetch"
	"github.com/shopsleuth/engine/internal/listing"
	"github.com/shopsleuth/engine/internal/logger"
	"github.com/shopsleuth/engine/internal/matching"
	"github.com/shopsleuth/engine/internal/orchestrator"
	"github.com/shopsleuth/engine/internal/platform"
	"github.com/shopsleuth/engine/internal/pod"
	"github.com/shopsleuth/engine/internal/pricing"
	"github.com/shopsleuth/engine/internal/query"
	"github.com/shopsleuth/engine/internal/recommend"
	"github.com/shopsleuth/engine/internal/search"
	"github.com/shopsleuth/engine/internal/telemetry"
	"github.com/shopsleuth/engine/internal/usage"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	configPath := config.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	log = log.With(logger.String("service", cfg.Service.Name))

	log.Info("Starting analysis engine",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
		logger.Bool("debug", cfg.Service.Debug),
	)

	// Telemetry (Prometheus metrics + tracing)
	tel := telemetry.NewProvider()

	// Platform registry and analysis pipeline
	registry := platform.NewRegistry()

	// Marketplace adapters register here as integrations land; with none
	// configured every run degrades to the fallback result.
	var adapters []search.Adapter

	// Page fetcher for listing analyses that arrive as a bare URL. The
	// per-origin limiter is shared across concurrent requests.
	limiter := fetch.NewOriginLimiter(cfg.Search.FetchRPS, cfg.Search.FetchBurst)
	fetcher := fetch.NewFetcher(&http.Client{Timeout: cfg.Search.FetchTimeout}, limiter, log)

	recommender := recommend.NewEngine(registry)
	if w := cfg.Recommend; w.ConfidenceWeight != 0 || w.TrustWeight != 0 || w.PriceRiskWeight != 0 {
		recommender = recommend.NewEngineWith(registry, recommend.Weights{
			Confidence: w.ConfidenceWeight,
			Trust:      w.TrustWeight,
			PriceRisk:  w.PriceRiskWeight,
		})
	}

	readyChecks := map[string]func() error{}

	// Usage quota tracker
	var quota usage.Tracker
	if cfg.Quota.UseRedis {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.URL,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		if pingErr := redisClient.Ping(context.Background()).Err(); pingErr != nil {
			log.Error("Failed to connect to Redis", logger.Error(pingErr))
			return 1
		}
		defer func() { _ = redisClient.Close() }()

		quota = usage.NewRedisTracker(redisClient, cfg.Quota.DailyLimit)
		readyChecks["redis"] = func() error {
			return redisClient.Ping(context.Background()).Err()
		}
		log.Info("Quota tracking via Redis", logger.String("addr", cfg.Redis.URL))
	} else {
		quota = usage.NewMemoryTracker(cfg.Quota.DailyLimit)
		log.Info("Quota tracking in memory", logger.Int("daily_limit", cfg.Quota.DailyLimit))
	}

	// Optional analysis history persistence
	var history api.HistoryStore
	if cfg.Database.Enabled {
		db, dbErr := database.NewPostgresConnection(database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.Database,
			SSLMode:  cfg.Database.SSLMode,
		})
		if dbErr != nil {
			log.Error("Failed to connect to database", logger.Error(dbErr))
			return 1
		}
		defer func() { _ = db.Close() }()

		history = database.NewAnalysisHistoryRepository(db)
		readyChecks["database"] = db.Ping
		log.Info("Analysis history enabled",
			logger.String("host", cfg.Database.Host),
			logger.String("database", cfg.Database.Database))
	} else {
		log.Info("Analysis history disabled; running without persistence")
	}

	// Orchestrator wiring
	analyzer := orchestrator.New(orchestrator.Config{
		Normalizer:  query.NewNormalizer(),
		Collector:   search.NewCollector(adapters, cfg.Search.AdapterTimeout, tel, log),
		Scorer:      matching.NewScorer(registry),
		Pricer:      pricing.NewAnalyzer(),
		Flagger:     authenticity.NewDetector(registry),
		Recommender: recommender,
		Quota:       quota,
		Telemetry:   tel,
		Logger:      log,
	})

	// API handler and HTTP server
	handler := api.NewHandler(api.HandlerConfig{
		Analyzer:   analyzer,
		Classifier: listing.NewClassifier(registry, log),
		Detector:   pod.NewDetector(),
		Fetcher:    fetcher,
		Registry:   registry,
		History:    history,
		Quota:      quota,
		Telemetry:  tel,
		Logger:     log,

		ServiceName: cfg.Service.Name,
		Version:     cfg.Service.Version,
		ReadyChecks: readyChecks,
	})

	server := api.NewServer(handler, api.ServerConfig{
		Port:        cfg.Service.Port,
		Debug:       cfg.Service.Debug,
		ServiceName: cfg.Service.Name,
	}, tel.Handler(), log)

	if runErr := server.RunWithGracefulShutdown(context.Background()); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return 1
	}

	log.Info("Analysis engine exited cleanly")
	return 0
}
