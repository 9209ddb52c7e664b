package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appidentity "github.com/invoicedash/backend/internal/application/identity"
	appinvoicing "github.com/invoicedash/backend/internal/application/invoicing"
	"github.com/invoicedash/backend/internal/infrastructure/auth"
	"github.com/invoicedash/backend/internal/infrastructure/cache"
	"github.com/invoicedash/backend/internal/infrastructure/config"
	"github.com/invoicedash/backend/internal/infrastructure/logger"
	"github.com/invoicedash/backend/internal/infrastructure/persistence"
	"github.com/invoicedash/backend/internal/infrastructure/telemetry"
	"github.com/invoicedash/backend/internal/interfaces/http/handler"
	"github.com/invoicedash/backend/internal/interfaces/http/middleware"
	"github.com/invoicedash/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

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
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting invoice dashboard",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver))

	dbSystem := "postgresql"
	if db.Driver == config.DriverSQLite {
		dbSystem = "sqlite"
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:            cfg.Telemetry.Enabled,
		DBSystem:           dbSystem,
		WithQueryVariables: !cfg.IsProduction(),
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	cacheFactory := cache.NewViewCacheFactory(cfg.Redis, cfg.Cache, cache.WithLogger(log))
	views, err := cacheFactory.CreateCache(ctx)
	if err != nil {
		log.Fatal("Failed to initialize view cache", zap.Error(err))
	}
	defer func() {
		if err := views.Close(); err != nil {
			log.Error("Error closing view cache", zap.Error(err))
		}
	}()

	// Sessions are revoked in Redis when the view cache runs on it
	var revocations auth.RevocationList
	if redisViews, ok := views.(*cache.RedisViewCache); ok {
		revocations = auth.NewRedisRevocationList(redisViews.Client())
	} else {
		log.Warn("Session revocation list is in-memory; sign-outs are not shared between instances")
		revocations = auth.NewInMemoryRevocationList()
	}

	// Repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Application services
	sessionService := auth.NewSessionService(cfg.JWT)
	invalidator := cache.NewInvalidator(views, log)
	invoiceService := appinvoicing.NewService(invoiceRepo, invalidator, log)
	queryService := appinvoicing.NewQueryService(invoiceRepo, customerRepo, log)
	provider := appidentity.NewCredentialsProvider(userRepo, sessionService, log)
	authenticate := appidentity.NewAuthenticateAction(provider, log)
	sessions := appidentity.NewSessions(sessionService, revocations, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - read by the request logger
	// 2. Recovery
	// 3. Logger
	// 4. Tracing + span attributes
	// 5. Security headers, CORS, body limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
	}))
	engine.Use(middleware.SpanAttributes())
	engine.Use(middleware.SecureWithConfig(securityConfig(cfg)))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	handlers := router.Handlers{
		Invoices: handler.NewInvoiceHandler(invoiceService, queryService),
		Auth:     handler.NewAuthHandler(authenticate, sessions, cfg.Cookie),
		Health:   handler.NewHealthHandler(db),
		RequireSession: middleware.RequireSession(middleware.SessionConfig{
			Verifier:   sessions,
			CookieName: cfg.Cookie.Name,
			Logger:     log,
		}),
	}
	if cfg.Cache.Enabled {
		handlers.ListingCache = middleware.ViewCache(views, cacheFactory.TTL(), log)
	}
	if cfg.HTTP.LoginRateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.LoginRateLimitRequests, cfg.HTTP.LoginRateLimitWindow)
		defer limiter.Stop()
		handlers.LoginRateLimit = middleware.RateLimit(limiter)
		log.Info("Login rate limiting enabled",
			zap.Int("requests", cfg.HTTP.LoginRateLimitRequests),
			zap.Duration("window", cfg.HTTP.LoginRateLimitWindow),
		)
	}
	router.Register(engine, handlers)

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

// securityConfig turns on HSTS when the session cookie is HTTPS-only
func securityConfig(cfg *config.Config) middleware.SecurityConfig {
	sec := middleware.DefaultSecurityConfig()
	sec.HSTSEnabled = cfg.Cookie.Secure
	return sec
}
