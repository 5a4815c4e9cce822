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

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/elikagan/objectlesson-api/internal/adapters/blobrepo"
	"github.com/elikagan/objectlesson-api/internal/adapters/githubstore"
	"github.com/elikagan/objectlesson-api/internal/adapters/payment"
	redis_a "github.com/elikagan/objectlesson-api/internal/adapters/redis_adapter"
	"github.com/elikagan/objectlesson-api/internal/adapters/storage"
	"github.com/elikagan/objectlesson-api/internal/adapters/suggest"
	"github.com/elikagan/objectlesson-api/internal/core/ports"
	"github.com/elikagan/objectlesson-api/internal/core/services"
	"github.com/elikagan/objectlesson-api/internal/handlers"
	"github.com/elikagan/objectlesson-api/internal/handlers/middleware"
	"github.com/elikagan/objectlesson-api/internal/pkg/config"
	"github.com/elikagan/objectlesson-api/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	appLogger := logger.SetupLogger("debug", "json")
	slogger := appLogger.Logger

	slogger.Info("starting object lesson inventory api",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	slogger.Info("loading configuration")
	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	appLogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger = appLogger.Logger
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	// Overlay managed secrets when configured
	if cfg.AWS.SecretsName != "" {
		sm, err := config.NewAWSSecretsManager(cfg.AWS.Region, cfg.AWS.SecretsName, slogger)
		if err != nil {
			slogger.Error("failed to initialize secrets manager", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := cfg.ApplySecrets(ctx, sm); err != nil {
			slogger.Error("failed to apply secrets", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	server := setupHTTPServer(cfg, deps, appLogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
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

		if deps.asynqClient != nil {
			if err := deps.asynqClient.Close(); err != nil {
				slogger.Error("failed to close Asynq client", slog.String("error", err.Error()))
			}
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	redisClient      *redis.Client
	redisCache       ports.CacheRepository
	asynqClient      *asynq.Client
	asynqInspector   *asynq.Inspector
	inventoryRepo    ports.InventoryRepository
	inventoryService *services.InventoryService
	checkoutService  *services.CheckoutService
	inventoryHandler *handlers.InventoryHandler
	checkoutHandler  *handlers.CheckoutHandler
	suggestHandler   *handlers.SuggestHandler
	exportHandler    *handlers.ExportHandler
	healthHandler    *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	// Initialize the GitHub-backed inventory document store
	logger.Info("initializing inventory document store",
		slog.String("owner", cfg.GitHub.Owner),
		slog.String("repo", cfg.GitHub.Repo),
		slog.String("path", cfg.GitHub.DocumentPath),
	)

	blobStore := githubstore.New(githubstore.Config{
		Owner:   cfg.GitHub.Owner,
		Repo:    cfg.GitHub.Repo,
		Branch:  cfg.GitHub.Branch,
		Token:   cfg.GitHub.Token,
		BaseURL: cfg.GitHub.BaseURL,
		Timeout: cfg.GitHub.Timeout,
	}, logger)

	deps.inventoryRepo = blobrepo.NewInventoryRepository(blobStore, cfg.GitHub.DocumentPath, logger)

	// Initialize Redis client
	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
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

	// Initialize Asynq client for side-effect dispatch
	logger.Info("initializing Asynq client")

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	// Initialize the S3 image store
	imageStore, err := storage.NewS3ImageStore(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}

	// Initialize services
	deps.inventoryService = services.NewInventoryService(
		deps.inventoryRepo, imageStore, deps.redisCache, deps.asynqClient, logger)

	squareClient := payment.NewSquareClient(payment.Config{
		AccessToken:  cfg.Square.AccessToken,
		LocationID:   cfg.Square.LocationID,
		RedirectBase: cfg.Square.RedirectBase,
		BaseURL:      cfg.Square.BaseURL,
		Timeout:      cfg.Square.Timeout,
	}, logger)

	deps.checkoutService = services.NewCheckoutService(
		deps.inventoryService, squareClient, deps.asynqClient, logger)

	// Initialize handlers
	deps.inventoryHandler = handlers.NewInventoryHandler(deps.inventoryService, imageStore, logger)
	deps.checkoutHandler = handlers.NewCheckoutHandler(
		deps.checkoutService, cfg.Square.SignatureKey, cfg.Square.WebhookURL, logger)
	deps.exportHandler = handlers.NewExportHandler(deps.inventoryService, logger)
	deps.healthHandler = handlers.NewHealthHandler(
		deps.inventoryRepo, redisClient, deps.asynqInspector, cfg, logger)

	// The suggester is optional: without an API key the endpoint reports
	// itself unconfigured instead of failing startup.
	var suggester ports.Suggester
	if cfg.Gemini.APIKey != "" {
		gemini, err := suggest.NewGeminiSuggester(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize suggester: %w", err)
		}
		suggester = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, listing suggestions disabled")
	}
	deps.suggestHandler = handlers.NewSuggestHandler(suggester, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, appLogger *logger.Logger) *http.Server {
	slogger := appLogger.Logger
	mux := http.NewServeMux()

	// Apply middleware in reverse order (innermost first)
	var handler http.Handler = mux

	handler = middleware.AdminAuth(cfg.Security.AdminToken, []string{
		"/api/v1/inventory",
		"/api/v1/suggest",
	})(handler)

	if cfg.App.Environment != "test" {
		handler = middleware.RequestID(handler)
		handler = middleware.Logger(appLogger)(handler)
		handler = middleware.Recovery(slogger)(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	registerRoutes(mux, deps, cfg)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	apiV1 := "/api/v1"

	// Health and readiness endpoints
	if cfg.Server.EnableHealthCheck {
		mux.HandleFunc("GET /health", deps.healthHandler.Health)
		mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
		mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)
	}

	// Inventory endpoints
	mux.HandleFunc("GET "+apiV1+"/inventory", deps.inventoryHandler.GetInventory)
	mux.HandleFunc("GET "+apiV1+"/inventory/{id}", deps.inventoryHandler.GetItem)
	mux.HandleFunc("POST "+apiV1+"/inventory", deps.inventoryHandler.CreateItem)
	mux.HandleFunc("POST "+apiV1+"/inventory/reorder", deps.inventoryHandler.Reorder)
	mux.HandleFunc("PUT "+apiV1+"/inventory/{id}", deps.inventoryHandler.UpdateItem)
	mux.HandleFunc("DELETE "+apiV1+"/inventory/{id}", deps.inventoryHandler.DeleteItem)
	mux.HandleFunc("POST "+apiV1+"/inventory/{id}/sold", deps.inventoryHandler.MarkSold)
	mux.HandleFunc("POST "+apiV1+"/inventory/images", deps.inventoryHandler.UploadImage)

	// Checkout and payment webhook endpoints
	mux.HandleFunc("POST "+apiV1+"/checkout", deps.checkoutHandler.CreateCheckout)
	mux.HandleFunc("POST "+apiV1+"/webhook", deps.checkoutHandler.HandleWebhook)

	// Listing suggestion endpoint
	mux.HandleFunc("POST "+apiV1+"/suggest", deps.suggestHandler.Suggest)

	// Export endpoints
	mux.HandleFunc("GET "+apiV1+"/export/xlsx", deps.exportHandler.ExportExcel)
	mux.HandleFunc("GET "+apiV1+"/export/json", deps.exportHandler.ExportJSON)
}
