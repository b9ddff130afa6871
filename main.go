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

	"github.com/apex/log"
	jsonhandler "github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/FibresApp/vibecode-ai-backend/config"
	"github.com/FibresApp/vibecode-ai-backend/gemini"
	"github.com/FibresApp/vibecode-ai-backend/handlers"
	"github.com/FibresApp/vibecode-ai-backend/llm"
	"github.com/FibresApp/vibecode-ai-backend/metrics"
	"github.com/FibresApp/vibecode-ai-backend/middleware"
	"github.com/FibresApp/vibecode-ai-backend/openai"
	"github.com/FibresApp/vibecode-ai-backend/service"
	"github.com/FibresApp/vibecode-ai-backend/stubllm"
	"github.com/FibresApp/vibecode-ai-backend/version"
)

const (
	EndPointRoot           = "/"
	EndPointHealth         = "/health"
	EndPointVersion        = "/version"
	EndPointMetrics        = "/metrics"
	EndPointAnalyzePhoto   = "/api/analyze-photo"
	EndPointComparePhotos  = "/api/compare-photos"
	EndPointDescribePhoto  = "/analyze-photo"
	shutdownTimeout        = 30 * time.Second
	providerResponseBuffer = 10 * time.Second
)

func main() {
	// A missing .env is fine; the environment wins either way
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("Failed to load .env file: %v", err)
	}

	cfg := config.Load()
	setupLogging(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	client, err := newClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize inference provider: %v", err)
	}

	metrics.Register()

	analyzer := service.NewAnalyzer(client, service.Options{
		SingleMaxTokens:   cfg.SingleMaxTokens,
		CompareMaxTokens:  cfg.CompareMaxTokens,
		Timeout:           cfg.ProviderTimeout,
		MaxImageDimension: cfg.MaxImageDimension,
	})
	router := setupRouter(cfg, handlers.NewHandlers(analyzer))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{
			"port":       cfg.Port,
			"provider":   client.SourceName(),
			"rate_limit": cfg.RateLimitPerMinute,
			"origins":    cfg.AllowedOrigins,
			"version":    version.BuildVersion,
		}).Info("server.starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Info("Server exited")
}

func setupLogging(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		log.SetHandler(jsonhandler.New(os.Stderr))
	} else {
		log.SetHandler(text.New(os.Stderr))
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// newClient builds the configured provider. The HTTP client timeout is a
// backstop; the per-request context carries the real deadline.
func newClient(cfg *config.Config) (llm.Client, error) {
	httpClient := &http.Client{Timeout: cfg.ProviderTimeout + providerResponseBuffer}

	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, httpClient), nil
	case config.ProviderGemini:
		return gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, httpClient), nil
	case config.ProviderStub:
		return stubllm.NewClient(), nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func setupRouter(cfg *config.Config, h *handlers.Handlers) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.CORS(cfg.AllowedOrigins),
		// promhttp compresses /metrics itself
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{EndPointMetrics})),
	)

	router.GET(EndPointRoot, h.HealthCheck)
	router.GET(EndPointHealth, h.HealthCheck)
	router.GET(EndPointVersion, h.Version)
	router.GET(EndPointMetrics, metrics.Handler())

	// Photo endpoints are size capped and rate limited per client IP
	photos := router.Group("/")
	photos.Use(
		middleware.BodyLimit(cfg.MaxBodyBytes),
		middleware.RateLimitMiddleware(cfg.RateLimitPerMinute, time.Minute),
	)
	{
		photos.POST(EndPointAnalyzePhoto, h.AnalyzePhoto)
		photos.POST(EndPointComparePhotos, h.ComparePhotos)
		photos.POST(EndPointDescribePhoto, h.DescribePhoto)
	}

	return router
}
