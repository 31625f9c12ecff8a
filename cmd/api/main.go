package main

import (
	"context"
	"errors"
	"fmt"
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

	_ "github.com/sjperalta/fintera-ledger/docs" // Swagger docs
	"github.com/sjperalta/fintera-ledger/internal/config"
	"github.com/sjperalta/fintera-ledger/internal/database"
	"github.com/sjperalta/fintera-ledger/internal/handlers"
	"github.com/sjperalta/fintera-ledger/internal/jobs"
	"github.com/sjperalta/fintera-ledger/internal/middleware"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/sjperalta/fintera-ledger/internal/seed"
	"github.com/sjperalta/fintera-ledger/internal/services"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
	"github.com/sjperalta/fintera-ledger/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Fintera Ledger API
// @version 1.0
// @description Double-entry general ledger: accounts, journal, fiscal periods, reconciliation, receivables and analytics

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Setup(cfg.Environment, cfg.LogLevel)

	if err := run(cfg); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// Sentry (GlitchTip) is optional
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
			Release:          "fintera-ledger@" + handlers.Version,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			defer sentry.Flush(5 * time.Second)
		}
	}

	if err := amount.SetCurrency(cfg.LedgerCurrency); err != nil {
		return err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.Environment)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	worker := jobs.NewWorker(cfg.WorkerCount)
	defer worker.Shutdown()

	svcs := services.NewServices(repository.NewRepositories(db), worker, cfg)
	if err := seedChart(context.Background(), svcs, cfg); err != nil {
		return fmt.Errorf("seed chart of accounts: %w", err)
	}
	svcs.Job.Start(services.JobSchedule{
		BudgetRefresh: cfg.BudgetRefreshEvery,
		BalanceCheck:  cfg.BalanceCheckInterval,
	})
	logger.Info("Scheduled recurring jobs", "jobs", svcs.Job.Names(), "workers", cfg.WorkerCount)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      setupRouter(handlers.NewHandlers(svcs), cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port, "currency", amount.Ledger().Code)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server exited gracefully")
	return nil
}

// seedChart applies the configured chart of accounts, if any
func seedChart(ctx context.Context, svcs *services.Services, cfg *config.Config) error {
	var chart *seed.Chart
	switch {
	case cfg.ChartOfAccountsPath != "":
		var err error
		if chart, err = seed.LoadFile(cfg.ChartOfAccountsPath); err != nil {
			return err
		}
	case cfg.SeedDefaultChart:
		chart = seed.Default()
	default:
		return nil
	}
	_, err := seed.Apply(ctx, svcs.Account, chart, services.SystemActor)
	return err
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Actor())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	h.Register(router.Group("/api/v1"))

	return router
}
