package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"envizi_webhook/internal/api"
	"envizi_webhook/internal/config"
	"envizi_webhook/internal/repository"
	"envizi_webhook/internal/service"
	"envizi_webhook/internal/template"
	"envizi_webhook/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Initialize logger
	logger.Init()
	logger.Info("Starting Envizi Webhook Service")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Initialize MongoDB
	db, err := config.InitMongo(cfg)
	if err != nil {
		log.Fatal("Failed to initialize MongoDB:", err)
	}
	defer db.Close()

	// Initialize InfluxDB (optional metrics sink)
	influx, err := config.InitInflux(cfg)
	if err != nil {
		log.Fatal("Failed to initialize InfluxDB:", err)
	}

	// Repositories
	webhookRepo, err := repository.NewWebhookRepo(db)
	if err != nil {
		log.Fatal("Failed to initialize webhook repository:", err)
	}
	templateRepo, err := repository.NewTemplateRepo(db)
	if err != nil {
		log.Fatal("Failed to initialize template repository:", err)
	}
	executionRepo := repository.NewExecutionRepo(db)
	metricsRepo := repository.NewMetricsRepo(influx)
	defer metricsRepo.Close()

	// Template provider with built-in defaults
	provider := template.NewProvider(templateRepo)
	if err := provider.EnsureDefaults(context.Background()); err != nil {
		log.Fatal("Failed to seed default templates:", err)
	}

	// Services
	fetcher := service.NewFetcher(
		cfg.FetchRetries,
		time.Duration(cfg.FetchRetryDelay)*time.Millisecond,
		time.Duration(cfg.FetchTimeout)*time.Second,
	)
	sink := service.NewEnviziSink(time.Duration(cfg.FetchTimeout) * time.Second)
	svc := service.NewService(webhookRepo, executionRepo, metricsRepo, provider, fetcher, sink)

	// Scheduler
	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	if cfg.SchedulerEnabled {
		sched := service.NewScheduler(svc, webhookRepo, time.Duration(cfg.SchedulerTick)*time.Second)
		sched.Start(schedCtx)
		defer sched.Stop()
	}

	// Setup HTTP server
	router := setupRouter(svc, provider)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info(fmt.Sprintf("Server starting on port %d", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced shutdown:", err)
	}

	logger.Info("Server stopped gracefully")
}

func setupRouter(svc *service.Service, provider *template.Provider) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(api.Logger())
	r.Use(api.CORS())

	// API routes
	api.SetupRoutes(r, svc, provider)

	return r
}
