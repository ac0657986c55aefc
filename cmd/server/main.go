package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appinvoice "github.com/invoicegen/backend/internal/application/invoice"
	"github.com/invoicegen/backend/internal/infrastructure/config"
	"github.com/invoicegen/backend/internal/infrastructure/logger"
	"github.com/invoicegen/backend/internal/infrastructure/persistence"
	"github.com/invoicegen/backend/internal/infrastructure/persistence/models"
	"github.com/invoicegen/backend/internal/infrastructure/printing"
	"github.com/invoicegen/backend/internal/interfaces/http/handler"
	"github.com/invoicegen/backend/internal/interfaces/http/middleware"
	"github.com/invoicegen/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting invoice service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with zap-backed GORM logging
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

	if err := db.DB.AutoMigrate(&models.InvoiceModel{}); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database connected and migrated")

	// PDF pipeline: composer, Chrome renderer, filesystem storage.
	// The renderer launches Chrome lazily on the first render request.
	composer, err := printing.NewInvoiceComposer()
	if err != nil {
		log.Fatal("Failed to initialize invoice composer", zap.Error(err))
	}

	renderer := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.PDF.RenderTimeout,
		ChromePath:     cfg.PDF.ChromePath,
		NoSandbox:      cfg.PDF.NoSandbox,
		MarginMM:       cfg.PDF.MarginMM,
		Logger:         log,
	})
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	pdfStorage, err := printing.NewFileSystemStorage(&printing.FileSystemStorageConfig{
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
		Logger:   log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF storage", zap.Error(err))
	}

	// Application service
	invoiceService := appinvoice.NewService(
		persistence.NewGormInvoiceRepository(db.DB),
		composer,
		renderer,
		pdfStorage,
		log,
	)

	// HTTP engine and middleware
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Routes
	router.NewRouter(engine).
		Register(router.NewSystemRoutes(handler.NewSystemHandler(db))).
		Register(router.NewInvoiceRoutes(handler.NewInvoiceHandler(invoiceService))).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Background retention sweep for stored PDFs
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	if cfg.Storage.RetentionDays > 0 {
		go runRetentionSweep(cleanupCtx, pdfStorage, cfg.Storage.RetentionDays, log)
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}

// runRetentionSweep periodically removes stored PDFs older than the
// configured retention period. Invoices themselves are never touched;
// their PDFs are re-rendered on demand.
func runRetentionSweep(ctx context.Context, storage printing.PDFStorage, retentionDays int, log *zap.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	maxAge := time.Duration(retentionDays) * 24 * time.Hour
	sweep := func() {
		removed, err := storage.CleanupOlderThan(ctx, maxAge)
		if err != nil {
			log.Warn("PDF retention sweep failed", zap.Error(err))
			return
		}
		if removed > 0 {
			log.Info("PDF retention sweep removed files",
				zap.Int("removed", removed),
				zap.Duration("max_age", maxAge))
		}
	}

	sweep()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
