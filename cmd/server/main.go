package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	advisorapp "github.com/finbook/backend/internal/application/advisor"
	identityapp "github.com/finbook/backend/internal/application/identity"
	ledgerapp "github.com/finbook/backend/internal/application/ledger"
	"github.com/finbook/backend/internal/infrastructure/advisor"
	"github.com/finbook/backend/internal/infrastructure/auth"
	"github.com/finbook/backend/internal/infrastructure/cache"
	"github.com/finbook/backend/internal/infrastructure/config"
	"github.com/finbook/backend/internal/infrastructure/logger"
	"github.com/finbook/backend/internal/infrastructure/persistence"
	"github.com/finbook/backend/internal/infrastructure/telemetry"
	"github.com/finbook/backend/internal/interfaces/http/handler"
	"github.com/finbook/backend/internal/interfaces/http/middleware"
	"github.com/finbook/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Finbook API
//	@version		1.0
//	@description	Personal finance backend: transactions, budgets, monthly summaries and an AI advisor.

//	@contact.name	API Support
//	@contact.url	https://github.com/finbook/backend

//	@license.name	MIT

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Finbook backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing (no-op provider when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
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

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	// Redis backs the token blacklist and the summary cache. When it is
	// unreachable the server still comes up with in-process fallbacks;
	// revocations then don't survive restarts and are not shared across
	// instances.
	var (
		tokenBlacklist auth.TokenBlacklist
		summaryCache   cache.MonthlySummaryCache
	)
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist and summary cache",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		summaryCache = cache.NewInMemorySummaryCache()
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
		summaryCache = cache.NewRedisSummaryCache(redisClient)
		log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr()))
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	budgetRepo := persistence.NewGormBudgetRepository(db.DB)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, log)
	userService := identityapp.NewUserService(userRepo, log)
	transactionService := ledgerapp.NewTransactionService(transactionRepo, budgetRepo, summaryCache, log)
	budgetService := ledgerapp.NewBudgetService(budgetRepo, transactionRepo, summaryCache, log)
	summaryService := ledgerapp.NewSummaryService(transactionRepo, summaryCache, ledgerapp.DefaultSummaryTTL, log)

	advisorClient := advisor.NewClient(cfg.Advisor)
	if !advisorClient.IsConfigured() {
		log.Warn("Advisor API key not configured, /ai/chat will report service unavailable")
	}
	advisorService := advisorapp.NewAdvisorService(
		advisorClient, userRepo, transactionRepo, budgetRepo,
		cfg.Advisor.ContextTransactions, log)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		User:        handler.NewUserHandler(userService),
		Transaction: handler.NewTransactionHandler(transactionService, summaryService),
		Budget:      handler.NewBudgetHandler(budgetService),
		Advisor:     handler.NewAdvisorHandler(advisorService),
		System:      handler.NewSystemHandler(),
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// JWT authentication for everything the router mounts as protected
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		UserVerifier:   identityapp.NewAccountVerifier(userRepo),
		Logger:         log,
	}
	authMiddleware := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	// Swagger documentation endpoint, gated by config
	swaggerConfig := middleware.SwaggerConfig{
		Enabled:     cfg.Swagger.Enabled,
		RequireAuth: cfg.Swagger.RequireAuth,
		AllowedIPs:  cfg.Swagger.AllowedIPs,
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(swaggerConfig, authMiddleware),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Stricter throttle on the credential endpoints to slow down brute
	// force. Keyed by client IP and path so login and register don't
	// share a bucket.
	var loginLimiter gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		loginLimiter = middleware.RateLimitByKey(authLimiter, func(c *gin.Context) string {
			return c.ClientIP() + ":" + c.FullPath()
		})
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
			zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
		)
	}

	// Mount the API route tree
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Setup(handlers, authMiddleware, loginLimiter)

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
