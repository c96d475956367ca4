package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/richxcame/delivery-demand/internal/demandforecast"
	"github.com/richxcame/delivery-demand/pkg/common"
	"github.com/richxcame/delivery-demand/pkg/config"
	"github.com/richxcame/delivery-demand/pkg/health"
	"github.com/richxcame/delivery-demand/pkg/logger"
	"github.com/richxcame/delivery-demand/pkg/middleware"
	"github.com/richxcame/delivery-demand/pkg/mlmodel"
	"github.com/richxcame/delivery-demand/pkg/monitoring"
	"github.com/richxcame/delivery-demand/pkg/resilience"
	"github.com/richxcame/delivery-demand/pkg/storage"
	"github.com/richxcame/delivery-demand/pkg/tracing"
	"go.uber.org/zap"
)

const serviceName = "demand-prediction-api"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting demand prediction service",
		zap.String("service", serviceName),
		zap.String("version", cfg.Server.Version),
		zap.String("environment", cfg.Server.Environment),
	)

	sentryEnabled, err := monitoring.InitSentry(cfg.Sentry, cfg.Server.Environment, serviceName+"@"+cfg.Server.Version)
	if err != nil {
		logger.Warn("Sentry not available, continuing without error reporting", zap.Error(err))
	}
	if sentryEnabled {
		defer monitoring.Flush(2 * time.Second)
	}

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, serviceName, cfg.Server.Version)
	if err != nil {
		logger.Warn("Tracing not available, continuing without traces", zap.Error(err))
		shutdownTracing = func(context.Context) error { return nil }
	}

	if cfg.Model.RemoteModel() {
		if err := fetchModel(ctx, cfg.Model); err != nil {
			logger.Fatal("Failed to fetch model artifact", zap.Error(err))
		}
	}

	model, err := mlmodel.Load(cfg.Model.Path, demandforecast.FeatureNames)
	if err != nil {
		logger.Fatal("Failed to load model artifact", zap.String("path", cfg.Model.Path), zap.Error(err))
	}

	tables, err := loadCodeTables(cfg.Model)
	if err != nil {
		logger.Fatal("Failed to load code tables", zap.Error(err))
	}
	if drift := tables.Drift(); !drift.Empty() {
		logger.Warn("Code tables disagree with request validation",
			zap.Any("missing", drift.Missing),
			zap.Any("unreachable", drift.Unreachable),
		)
	}

	service := demandforecast.NewService(model, tables)
	router := setupRouter(cfg, service, sentryEnabled)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Failed to flush traces", zap.Error(err))
	}

	logger.Info("Server exited")
}

// setupRouter builds the HTTP surface. Tests use it with a stub model.
func setupRouter(cfg *config.Config, service *demandforecast.Service, sentryEnabled bool) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	if sentryEnabled {
		router.Use(monitoring.Middleware())
	}
	router.Use(middleware.CorrelationID())
	router.Use(tracing.Middleware(serviceName))
	router.Use(middleware.RequestLogger("/healthz", "/health/ready", "/metrics"))
	router.Use(middleware.Metrics(serviceName))
	router.Use(middleware.SecurityHeaders(cfg.Server.Environment == "production"))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins()))

	// Health check and metrics
	router.GET("/healthz", common.HealthCheck(serviceName, cfg.Server.Version))
	router.GET("/health/ready", common.ReadinessCheck(serviceName, cfg.Server.Version, map[string]func() error{
		"model_artifact": health.FileChecker(cfg.Model.Path),
		"model_probe":    health.ProbeChecker(service.Probe, health.DefaultCheckerConfig()),
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("")
	api.Use(middleware.Timeout(cfg.Server.RequestTimeout()))
	api.Use(middleware.ValidateJSONContentType())
	api.Use(middleware.MaxBodySize(cfg.Server.MaxBodyBytes))
	{
		demandforecast.NewHandler(service).RegisterRoutes(api)
	}

	return router
}

func loadCodeTables(cfg config.ModelConfig) (*demandforecast.CodeTables, error) {
	if cfg.CodeTablesPath == "" {
		return demandforecast.DefaultCodeTables(), nil
	}

	tables, err := demandforecast.LoadCodeTables(cfg.CodeTablesPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Code tables loaded", zap.String("path", cfg.CodeTablesPath))
	return tables, nil
}

func fetchModel(ctx context.Context, cfg config.ModelConfig) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	store, err := storage.NewS3Storage(ctx, storage.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
	})
	if err != nil {
		return err
	}

	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = 4
	return fetchWithRetry(ctx, store, cfg.S3Key, cfg.Path, retry)
}

// fetchWithRetry downloads key to dest. A missing object is not retried.
func fetchWithRetry(ctx context.Context, store storage.Storage, key, dest string, retry resilience.RetryConfig) error {
	retry.Name = "model_fetch"
	retry.RetryableChecker = func(err error) bool {
		return !errors.Is(err, storage.ErrNotFound)
	}

	return resilience.Retry(ctx, retry, func(ctx context.Context) error {
		return mlmodel.Fetch(ctx, store, key, dest)
	})
}
