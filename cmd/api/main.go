// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	dynamo_a "github.com/ammerola/warehouse-be/internal/adapters/dynamo"
	redis_a "github.com/ammerola/warehouse-be/internal/adapters/redis_adapter"
	"github.com/ammerola/warehouse-be/internal/core/ports"
	"github.com/ammerola/warehouse-be/internal/core/services"
	"github.com/ammerola/warehouse-be/internal/handlers"
	"github.com/ammerola/warehouse-be/internal/handlers/middleware"
	"github.com/ammerola/warehouse-be/internal/pkg/config"
	"github.com/ammerola/warehouse-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting warehouse service",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	// Load configuration
	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	dynamoClient    *dynamodb.Client
	redisClient     *redis.Client
	redisCache      ports.CacheRepository
	asynqClient     *asynq.Client
	asynqInspector  *asynq.Inspector
	articleService  *services.ArticleService
	productService  *services.ProductService
	articlesHandler *handlers.ArticlesHandler
	productsHandler *handlers.ProductsHandler
	healthHandler   *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	// Initialize DynamoDB client
	logger.Info("connecting to DynamoDB",
		slog.String("region", cfg.DynamoDB.Region),
		slog.String("endpoint", cfg.DynamoDB.Endpoint),
	)

	dynamoCfg := &dynamo_a.Config{
		Region:          cfg.DynamoDB.Region,
		AccessKeyID:     cfg.DynamoDB.AccessKeyID,
		SecretAccessKey: cfg.DynamoDB.SecretAccessKey,
		Endpoint:        cfg.DynamoDB.Endpoint,
		ArticlesTable:   cfg.DynamoDB.ArticlesTable,
		ProductsTable:   cfg.DynamoDB.ProductsTable,
	}

	dynamoClient, err := dynamo_a.NewClient(ctx, dynamoCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize DynamoDB client: %w", err)
	}
	deps.dynamoClient = dynamoClient

	if cfg.DynamoDB.EnsureTables {
		if err := dynamo_a.EnsureTables(ctx, dynamoClient, dynamoCfg, logger); err != nil {
			return nil, fmt.Errorf("failed to ensure DynamoDB tables: %w", err)
		}
	}

	// Initialize Redis client
	logger.Info("connecting to Redis",
		slog.String("address", cfg.GetRedisAddress()),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:            cfg.GetRedisAddress(),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		PoolTimeout:     cfg.Redis.PoolTimeout,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient
	deps.redisCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, logger)

	// Initialize Asynq client
	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	// Initialize stores
	ledgerStore := dynamo_a.NewArticleStore(dynamoClient, cfg.DynamoDB.ArticlesTable, logger)
	catalogStore := dynamo_a.NewProductStore(dynamoClient, cfg.DynamoDB.ProductsTable, logger)

	// Initialize services
	deps.articleService = services.NewArticleService(ledgerStore, logger)
	deps.productService = services.NewProductService(catalogStore, deps.articleService, deps.redisCache, cfg.Redis.TTL, logger)

	// Initialize handlers
	deps.articlesHandler = handlers.NewArticlesHandler(deps.articleService, logger)
	deps.productsHandler = handlers.NewProductsHandler(
		deps.productService,
		deps.asynqClient,
		cfg.Asynq.LowStockThreshold,
		logger,
	)
	deps.healthHandler = handlers.NewHealthHandler(
		dynamoClient,
		redisClient,
		deps.asynqInspector,
		cfg,
		logger,
	)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	// Apply middleware in reverse order (innermost first)
	var handler http.Handler = mux
	handler = middleware.ContentTypeJSON(handler)
	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}
	handler = middleware.Logger(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestID(handler)

	registerRoutes(mux, deps)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies) {
	apiV1 := "/api/v1"

	// Health and readiness endpoints
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
	mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)

	// Article ledger endpoints
	mux.HandleFunc("GET "+apiV1+"/articles", deps.articlesHandler.GetArticles)
	mux.HandleFunc("POST "+apiV1+"/articles", deps.articlesHandler.LoadArticles)
	mux.HandleFunc("POST "+apiV1+"/articles/stock", deps.articlesHandler.AdjustStock)

	// Product catalog and purchase endpoints
	mux.HandleFunc("GET "+apiV1+"/products", deps.productsHandler.GetProducts)
	mux.HandleFunc("GET "+apiV1+"/products/available", deps.productsHandler.ListAvailable)
	mux.HandleFunc("POST "+apiV1+"/products", deps.productsHandler.LoadProducts)
	mux.HandleFunc("POST "+apiV1+"/products/purchase", deps.productsHandler.Purchase)
}
