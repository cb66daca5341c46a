package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"mealspread/internal/api"
	"mealspread/internal/config"
	"mealspread/internal/detect"
	"mealspread/internal/planner"
	"mealspread/internal/platform/gemini"
	"mealspread/internal/platform/localllm"
	"mealspread/internal/platform/mealdb"
	"mealspread/internal/platform/metrics"
	"mealspread/internal/platform/rediscache"
	"mealspread/internal/platform/spoonacular"
	"mealspread/internal/recipe"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	httpClient := &http.Client{}

	mealdbOpts := []mealdb.Option{
		mealdb.WithTimeout(cfg.MealDB.LookupTimeout),
		mealdb.WithMetrics(m),
		mealdb.WithLogger(logger.Named("mealdb")),
	}
	if cfg.RedisAddr != "" {
		cache, err := rediscache.New(ctx, cfg.RedisAddr, cfg.CacheTTL)
		if err != nil {
			return fmt.Errorf("error creating redis cache: %w", err)
		}
		defer cache.Close()
		mealdbOpts = append(mealdbOpts, mealdb.WithCache(cache))
		logger.Info("caching provider responses in redis", zap.String("addr", cfg.RedisAddr))
	}
	provider := mealdb.NewClient(cfg.MealDB.BaseURL, httpClient, mealdbOpts...)

	summarizer, closeSummarizer, err := newSummarizer(ctx, cfg, httpClient)
	if err != nil {
		return err
	}
	defer closeSummarizer()

	svc := planner.New(provider, summarizer, logger.Named("planner"),
		planner.WithWorkers(cfg.MealDB.Workers),
		planner.WithSummaryTimeout(cfg.SummaryTimeout),
		planner.WithMetrics(m),
	)

	var finder api.RecipeFinder
	if cfg.UploadEnabled() {
		client, err := spoonacular.NewClient(cfg.SpoonacularBaseURL, cfg.SpoonacularAPIKey, httpClient, cfg.MealDB.LookupTimeout, m)
		if err != nil {
			return fmt.Errorf("error creating spoonacular client: %w", err)
		}
		finder = client
	} else {
		logger.Warn("SPOONACULAR_API_KEY not set, image uploads disabled")
	}

	var store recipe.Store
	if cfg.DatabaseURL != "" {
		dbStore, err := recipe.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("error creating postgres store: %w", err)
		}
		defer dbStore.Close()
		store = dbStore
	}

	handler := api.NewHandler(svc, detect.NewStub(), finder, store, logger.Named("api"))
	handler.Timeout = cfg.RequestTimeout

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(handler, m, cfg.AllowedOrigins, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("summarizer", cfg.SummarizerBackend))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newSummarizer builds the configured narrative backend. The returned close
// function is never nil.
func newSummarizer(ctx context.Context, cfg *config.Config, httpClient *http.Client) (planner.Summarizer, func(), error) {
	switch cfg.SummarizerBackend {
	case config.BackendGemini:
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, fmt.Errorf("error creating gemini client: %w", err)
		}
		return client, func() { _ = client.Close() }, nil
	case config.BackendLocal:
		return localllm.NewClient(httpClient, cfg.LocalLLMURL, cfg.LocalLLMModel), func() {}, nil
	default:
		return nil, func() {}, nil
	}
}

func newRouter(handler *api.Handler, m *metrics.Metrics, allowedOrigins []string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(api.RequestID())
	r.Use(api.RequestLogger(logger.Named("http"), "/healthz", "/metrics"))
	r.Use(m.Middleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", api.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", api.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.POST("/generate", handler.Generate)
	r.POST("/upload", handler.Upload)
	r.GET("/healthz", handler.Health)
	r.GET("/metrics", gin.WrapH(m.Handler()))
	return r
}
