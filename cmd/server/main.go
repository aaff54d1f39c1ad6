package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amazonapp "github.com/erp/mws-connector/internal/application/amazon"
	"github.com/erp/mws-connector/internal/infrastructure/auth"
	"github.com/erp/mws-connector/internal/infrastructure/cache"
	"github.com/erp/mws-connector/internal/infrastructure/config"
	"github.com/erp/mws-connector/internal/infrastructure/logger"
	"github.com/erp/mws-connector/internal/infrastructure/migration"
	"github.com/erp/mws-connector/internal/infrastructure/mws"
	"github.com/erp/mws-connector/internal/infrastructure/persistence"
	"github.com/erp/mws-connector/internal/infrastructure/storage"
	"github.com/erp/mws-connector/internal/infrastructure/telemetry"
	"github.com/erp/mws-connector/internal/interfaces/http/handler"
	"github.com/erp/mws-connector/internal/interfaces/http/middleware"
	"github.com/erp/mws-connector/internal/interfaces/http/router"
	"github.com/erp/mws-connector/migrations"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting MWS connector",
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Telemetry first so the DB plugin and HTTP middleware see the global providers
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.Profiling.Enabled,
		ServerAddress:     cfg.Telemetry.Profiling.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Telemetry.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Telemetry.Profiling.BasicAuthPassword,
		ProfileTypes:      cfg.Telemetry.Profiling.ProfileTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.LinkProfiles()
	}
	defer shutdownTelemetry(log, telemetryShutdown{tracerProvider, meterProvider, loggerProvider, profiler})

	if cfg.Database.MigrateOnStart {
		if err := migrate(cfg, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracing(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)
	if err := dbTracing.Install(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	identifierRepo := persistence.NewGormIdentifierRepository(db.DB)
	linkRepo := persistence.NewGormAccountLinkRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	listingFinder := persistence.NewGormListingFinder(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Marketplace client
	mwsClient, err := mws.NewClient(mws.Config{
		Endpoint:          cfg.MWS.Endpoint,
		Timeout:           cfg.MWS.Timeout,
		RequestsPerSecond: cfg.MWS.RequestsPerS,
		Burst:             cfg.MWS.Burst,
		UserAgent:         cfg.MWS.UserAgent,
	}, log)
	if err != nil {
		log.Fatal("Failed to create MWS client", zap.Error(err))
	}

	// Wizard sessions live in Redis; memory is only acceptable outside production
	storeFactory := cache.NewWizardStoreFactory(cfg.Redis, cfg.Wizard.KeyPrefix,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	)
	wizardStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create wizard store", zap.Error(err))
	}
	if closer, ok := wizardStore.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	// Application services
	exportService := amazonapp.NewExportService(
		accountRepo, productRepo, identifierRepo, linkRepo, stockRepo, mwsClient, txScope, log,
	)
	exportMetrics, err := telemetry.NewExportMetrics(meterProvider.Meter("mws-connector/export"), log)
	if err != nil {
		log.Warn("Failed to create export metrics", zap.Error(err))
	} else {
		exportService.SetMetrics(exportMetrics)
	}
	if cfg.Storage.Enabled {
		archive, err := storage.NewS3FeedArchive(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create feed archive", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = archive.EnsureBucket(ctx)
		cancel()
		if err != nil {
			log.Fatal("Failed to prepare feed archive bucket", zap.Error(err), zap.String("bucket", archive.Bucket()))
		}
		exportService.SetFeedArchive(archive)
		log.Info("Feed archive enabled", zap.String("bucket", archive.Bucket()))
	}

	accountService := amazonapp.NewAccountService(accountRepo, log)
	identifierService := amazonapp.NewIdentifierService(productRepo, identifierRepo, log)
	resolver := amazonapp.NewProductResolver(accountRepo, productRepo, mwsClient, txScope, log)
	wizardService := amazonapp.NewWizardService(accountRepo, listingFinder, exportService, wizardStore, cfg.Wizard.SessionTTL, log)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order: request ID, tracing, recovery, logging, security headers, CORS, body limit
	engine.Use(middleware.RequestID())
	if tracerProvider.IsEnabled() {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName), middleware.SpanEnricher())
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if meterProvider.IsEnabled() {
		httpMetrics, err := middleware.HTTPMetrics(meterProvider.Meter("mws-connector/http"))
		if err != nil {
			log.Warn("Failed to create HTTP metrics", zap.Error(err))
		} else {
			engine.Use(httpMetrics)
		}
	}

	// Authentication, then rate limiting so limits follow the token subject
	var amazonMiddleware []gin.HandlerFunc
	if cfg.JWT.Enabled {
		amazonMiddleware = append(amazonMiddleware, middleware.JWTAuth(middleware.JWTMiddlewareConfig{
			JWTService: auth.NewJWTService(cfg.JWT),
			Logger:     log,
		}))
	} else {
		log.Warn("JWT authentication disabled, API is open")
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitPerMinute, cfg.HTTP.RateLimitBurst)
		amazonMiddleware = append(amazonMiddleware, middleware.RateLimit(limiter))
		go pruneLimiter(limiter, log)
		log.Info("Rate limiting enabled",
			zap.Int("per_minute", cfg.HTTP.RateLimitPerMinute),
			zap.Int("burst", cfg.HTTP.RateLimitBurst),
		)
	}

	amazonRoutes := router.NewAmazonRoutes(router.AmazonHandlers{
		Accounts:    handler.NewAccountHandler(accountService),
		Identifiers: handler.NewIdentifierHandler(identifierService),
		Exports:     handler.NewExportHandler(exportService, resolver),
		Wizards:     handler.NewWizardHandler(wizardService),
	}, amazonMiddleware...)

	router.Mount(engine, "v1",
		router.NewSystemRoutes(handler.NewHealthHandler(db, version)),
		amazonRoutes,
	)
	log.Debug("Routes registered", zap.Strings("amazon", amazonRoutes.Routes()))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// migrate applies the embedded migrations over a dedicated connection.
// The migrate driver closes the *sql.DB it is given.
func migrate(cfg *config.Config, log *zap.Logger) error {
	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	m, err := migration.NewEmbedded(sqlDB, migrations.FS, log)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}

// pruneLimiter drops idle rate limit entries until the process exits
func pruneLimiter(limiter *middleware.RateLimiter, log *zap.Logger) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		if n := limiter.Prune(); n > 0 {
			log.Debug("Pruned idle rate limit entries", zap.Int("count", n))
		}
	}
}

type telemetryShutdown struct {
	traces   *telemetry.TracerProvider
	metrics  *telemetry.MeterProvider
	logs     *telemetry.LoggerProvider
	profiler *telemetry.Profiler
}

// shutdownTelemetry stops the log exporter last so earlier shutdown errors
// still reach the collector.
func shutdownTelemetry(log *zap.Logger, t telemetryShutdown) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := t.profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := t.metrics.Shutdown(ctx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := t.traces.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := t.logs.Shutdown(ctx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
}
