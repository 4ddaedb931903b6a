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

	_ "github.com/edusupply/schola-api/docs" // Swagger docs
	"github.com/edusupply/schola-api/internal/config"
	"github.com/edusupply/schola-api/internal/database"
	"github.com/edusupply/schola-api/internal/handlers"
	"github.com/edusupply/schola-api/internal/jobs"
	"github.com/edusupply/schola-api/internal/middleware"
	"github.com/edusupply/schola-api/internal/repository"
	"github.com/edusupply/schola-api/internal/services"
	"github.com/edusupply/schola-api/internal/storage"
	"github.com/edusupply/schola-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Schola API
// @version 1.0
// @description Business operations API for a school supplies distributor: inventory, LPOs, invoicing, payments, expenses and a running cash ledger.

// @contact.name Schola Supplies
// @contact.email accounts@schola.co.ke

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

	if cfg.ResendAPIKey == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY not set. Overdue reminders and welcome emails will be skipped.")
	}
	if cfg.OpenAIAPIKey == "" {
		logger.Warn("OPENAI_API_KEY not set: demand forecasts fall back to the moving-average heuristic.")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize storage for receipts
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, store, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, repos, cfg)

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

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

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
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Redirect root to swagger
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})

		// Swagger documentation
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// Operator account management
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.GET("/users/:user_id", h.User.Show)
				admin.PUT("/users/:user_id", h.User.Update)
				admin.PUT("/users/:user_id/toggle_active", h.User.ToggleActive)

				// Audit trail and worker status
				admin.GET("/audit", h.Audit.Index)
				admin.GET("/jobs/status", h.Job.Status)
			}

			// Own password change
			protected.PATCH("/users/:user_id/change_password", h.User.ChangePassword)

			// Schools
			protected.GET("/schools", h.School.Index)
			protected.POST("/schools", h.School.Create)
			protected.GET("/schools/:school_id", h.School.Show)
			protected.PUT("/schools/:school_id", h.School.Update)
			protected.GET("/schools/:school_id/credit", h.School.Credit)

			// Inventory
			protected.GET("/inventory", h.Inventory.Index)
			protected.GET("/inventory/available", h.Inventory.Available)
			protected.GET("/inventory/summary", h.Inventory.Summary)
			protected.POST("/inventory/procure", h.Inventory.Procure)

			// Purchase orders
			protected.GET("/lpos", h.LPO.Index)
			protected.POST("/lpos", h.LPO.Create)
			protected.GET("/lpos/:lpo_id", h.LPO.Show)
			protected.PUT("/lpos/:lpo_id/items", h.LPO.UpdateItems)

			// Invoices
			protected.GET("/invoices", h.Invoice.Index)
			protected.POST("/invoices", h.Invoice.Record)
			protected.GET("/invoices/:invoice_id", h.Invoice.Show)

			// Payments
			protected.GET("/payments", h.Payment.Index)
			protected.POST("/payments", h.Payment.Record)
			protected.GET("/payments/:payment_id", h.Payment.Show)
			protected.POST("/payments/:payment_id/receipt", h.Payment.UploadReceipt)
			protected.GET("/payments/:payment_id/receipt", h.Payment.DownloadReceipt)

			// Expenses
			protected.GET("/expenses", h.Expense.Index)
			protected.POST("/expenses", h.Expense.Record)

			// Ledger
			protected.GET("/ledger", h.Ledger.Index)
			protected.GET("/ledger/balance", h.Ledger.Balance)

			// Analytics
			analytics := protected.Group("/analytics")
			{
				analytics.GET("/overview", h.Analytics.Overview)
				analytics.GET("/top-items", h.Analytics.TopItems)
				analytics.GET("/slow-payers", h.Analytics.SlowPayers)
				analytics.GET("/aging", h.Analytics.Aging)
				analytics.GET("/trend", h.Analytics.Trend)
				analytics.GET("/expenses-by-category", h.Analytics.ExpensesByCategory)
				analytics.GET("/export", h.Analytics.Export)
				analytics.GET("/forecast", h.Analytics.Forecast)
			}

			// Reports
			protected.GET("/reports/invoices/:invoice_id/pdf", h.Report.InvoicePDF)
			protected.GET("/reports/schools/:school_id/statement", h.Report.SchoolStatementPDF)
			protected.GET("/reports/ledger/csv", h.Report.LedgerCSV)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, repos *repository.Repositories, cfg *config.Config) {
	// Refresh analytics cache at startup and every 15 minutes after
	worker.ScheduleEveryImmediate(15*time.Minute, func(ctx context.Context) error {
		logger.Info("[Job] Refreshing analytics cache...")
		return svcs.Analytics.RefreshCache(ctx)
	})

	// Daily overdue invoice reminders to schools
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Sending overdue invoice reminders...")
		overdue, err := svcs.Credit.OverdueBySchool(ctx)
		if err != nil {
			return err
		}
		for schoolID, invoices := range overdue {
			school, err := repos.School.FindByID(ctx, schoolID)
			if err != nil {
				logger.Error("Failed to load school for reminder", "school_id", schoolID, "error", err)
				continue
			}
			if err := svcs.Email.SendOverdueReminder(ctx, school, invoices, cfg.ReminderAfterDays); err != nil {
				logger.Error("Failed to send overdue reminder", "school_id", schoolID, "error", err)
			}
		}
		return nil
	})

	// Nightly cleanup of expired cache rows and refresh tokens
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Cleaning expired cache entries and refresh tokens...")
		if err := repos.Analytics.CleanExpired(ctx); err != nil {
			return err
		}
		return repos.RefreshToken.DeleteExpired(ctx)
	})

	logger.Info("Scheduled recurring jobs")
}
