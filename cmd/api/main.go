package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/user/scrapeflow/internal/adapter/chromedp_browser"
	"github.com/user/scrapeflow/internal/adapter/googlesearch"
	"github.com/user/scrapeflow/internal/adapter/groq"
	"github.com/user/scrapeflow/internal/adapter/postgres"
	redis_adapter "github.com/user/scrapeflow/internal/adapter/redis"
	"github.com/user/scrapeflow/internal/delivery/http/handler"
	"github.com/user/scrapeflow/internal/delivery/http/router"
	"github.com/user/scrapeflow/internal/usecase"
	"github.com/user/scrapeflow/pkg/config"
	"github.com/user/scrapeflow/pkg/logger"
	"github.com/user/scrapeflow/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Logger ---
	logLevel := logger.ParseLevel(cfg.LogLevel)
	logger.Init(os.Stdout, logLevel)
	slog.Info("Logger initialized", "level", logLevel.String())

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	// --- Database Connections ---
	ctx := context.Background()

	// PostgreSQL
	pgConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
	dbpool, err := pgxpool.New(ctx, pgConnString)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	slog.Info("PostgreSQL connection pool established")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("Redis connection established")

	// --- Adapters ---
	quotaRepo := redis_adapter.NewQuotaRepo(rdb)
	cacheRepo := redis_adapter.NewCacheRepo(rdb)
	runRepo := postgres.NewRunRepo(dbpool)
	searchBackend := googlesearch.NewSearchBackend(cfg.GoogleAPIKey, cfg.GoogleCSEID)
	browser := chromedp_browser.NewBrowserFetcher(cfg.BodyTextLimit)
	// The planner runs slightly creative, extraction fully deterministic.
	plannerModel := groq.NewLanguageModel(cfg.GroqAPIKey, cfg.GroqModel, 0.2)
	extractorModel := groq.NewLanguageModel(cfg.GroqAPIKey, cfg.GroqModel, 0)

	// --- Use Cases ---
	limiter := usecase.NewRateLimiter(quotaRepo, int64(cfg.DailySearchLimit))
	cache := usecase.NewResultCache(cacheRepo)
	planner := usecase.NewPlanner(plannerModel)
	resolver := usecase.NewURLResolver(searchBackend, limiter, cache)
	scraper := usecase.NewPageScraper(browser, cache, cfg.PageLoadTimeout)
	extractor := usecase.NewExtractor(extractorModel)
	pipeline := usecase.NewPipeline(planner, resolver, scraper, extractor, limiter, runRepo,
		cfg.ResultCount, cfg.MaxChunkTokens)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(pipeline)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Minute, // pipeline runs block on LLM, search, and browser calls
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
		os.Exit(1)
	}
}
