package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hirepath-backend/config"
	_ "hirepath-backend/docs" // Important for Swagger
	"hirepath-backend/internal/delivery/http/middleware"
	v1 "hirepath-backend/internal/delivery/http/v1"
	"hirepath-backend/internal/repository/postgres"
	"hirepath-backend/internal/repository/postgres/migrations"
	"hirepath-backend/internal/usecase"
	"hirepath-backend/pkg/audit"
	"hirepath-backend/pkg/database"
	"hirepath-backend/pkg/logger"
	"hirepath-backend/pkg/redis"
	"hirepath-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// @title           HirePath API
// @version         1.0
// @description     Candidate tracking backend for the HirePath recruiter dashboard.
// @BasePath        /api
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting HirePath backend", "port", cfg.Port, "env", cfg.Env)

	auditLog := audit.New("hirepath-api", cfg.Env)
	defer func() { _ = auditLog.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 3. Setup Database
	ctx := context.Background()
	dbPool, err := database.NewPostgresConnection(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if cfg.RunMigrations {
		if err := database.RunMigrations(ctx, dbPool, migrations.FS); err != nil {
			logger.Log.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	// 4. Setup Redis (optional, rate limiting only)
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.Connect(ctx, redis.Options{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting will use in-memory fallback", "error", err)
		} else {
			defer redisClient.Close()
		}
	}

	// 5. Setup Repositories
	candidateRepo := postgres.NewCandidateRepository(dbPool)

	// 6. Setup UseCases
	validate := validation.New()
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, validate, auditLog)
	exportUC := usecase.NewExportUsecase(candidateRepo, auditLog, cfg.ExportMaxRows)
	healthUC := usecase.NewHealthUsecase(dbPool)

	// 7. Setup Router
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Limit:  cfg.RateLimitThreshold,
		Window: cfg.RateLimitWindow(),
	}, redisClient, auditLog)

	router := v1.NewRouter(v1.RouterDeps{
		CandidateUC: candidateUC,
		ExportUC:    exportUC,
		HealthUC:    healthUC,
		RateLimiter: rateLimiter,
		Config:      cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server listening", "health", "http://localhost:"+cfg.Port+"/health")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
