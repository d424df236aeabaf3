package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sjperalta/cobuy-api/docs" // Swagger docs
	"github.com/sjperalta/cobuy-api/internal/advisor"
	"github.com/sjperalta/cobuy-api/internal/config"
	"github.com/sjperalta/cobuy-api/internal/database"
	"github.com/sjperalta/cobuy-api/internal/fixtures"
	"github.com/sjperalta/cobuy-api/internal/handlers"
	"github.com/sjperalta/cobuy-api/internal/jobs"
	"github.com/sjperalta/cobuy-api/internal/middleware"
	"github.com/sjperalta/cobuy-api/internal/repository"
	"github.com/sjperalta/cobuy-api/internal/services"
	"github.com/sjperalta/cobuy-api/internal/storage"
	"github.com/sjperalta/cobuy-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title CoBuy API
// @version 1.0
// @description REST API for co-buying real estate: catalog pricing, installment plans and payments

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.EnableEmailNotifications && cfg.ResendAPIKey == "" {
		logger.Warn("Email notifications enabled but RESEND_API_KEY is not set")
	}
	if cfg.AdvisorURL == "" {
		logger.Warn("ADVISOR_URL not set, advisor endpoints will answer 503")
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database", "driver", cfg.DBType)

	// Seed the demo catalog into an empty database, or always when asked
	catalog, err := fixtures.Load()
	if err != nil {
		logger.Error("Failed to load fixtures", "error", err)
		os.Exit(1)
	}
	if err := fixtures.Seed(context.Background(), db, catalog, cfg.SeedFixtures); err != nil {
		logger.Error("Failed to seed fixtures", "error", err)
		os.Exit(1)
	}

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage", "path", cfg.StoragePath)

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	adv := advisor.NewHTTPAdvisor(advisor.Config{
		URL:     cfg.AdvisorURL,
		APIKey:  cfg.AdvisorAPIKey,
		Model:   cfg.AdvisorModel,
		Timeout: cfg.AdvisorTimeout,
	})

	// Initialize services
	svcs := services.NewServices(repos, worker, store, cfg, adv)

	// Schedule recurring jobs
	svcs.Job.ScheduleOverdueReminders(cfg.ReminderInterval)
	logger.Info("Scheduled recurring jobs", "reminder_interval", cfg.ReminderInterval)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger("/api/v1/health"))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	h.Register(router.Group("/api/v1"), cfg.JWTSecret)

	return router
}
