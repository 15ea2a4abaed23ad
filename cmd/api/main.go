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

	"jobs-admin-backend/config"
	_ "jobs-admin-backend/docs" // Important for Swagger
	"jobs-admin-backend/internal/delivery/http/middleware"
	v1 "jobs-admin-backend/internal/delivery/http/v1"
	"jobs-admin-backend/internal/domain"
	"jobs-admin-backend/internal/repository/cache"
	"jobs-admin-backend/internal/repository/postgres"
	"jobs-admin-backend/internal/schema"
	"jobs-admin-backend/internal/usecase"
	"jobs-admin-backend/pkg/database"
	"jobs-admin-backend/pkg/logger"
	redispkg "jobs-admin-backend/pkg/redis"
	"jobs-admin-backend/pkg/security/antivirus"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// @title           Jobs Admin API
// @version         1.0
// @description     Back office for companies and their job postings.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting jobs admin backend", "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, database.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if cfg.RunMigrations {
		if err := database.Migrate(ctx, dbPool); err != nil {
			logger.Log.Error("Failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	// 4. Setup Redis (optional)
	var redisClient *goredis.Client
	redisClient, err = redispkg.NewClient(ctx, redispkg.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	switch {
	case errors.Is(err, redispkg.ErrNotConfigured):
		redisClient = nil
	case err != nil:
		logger.Log.Warn("Redis unavailable, continuing without it", "error", err)
		redisClient = nil
	default:
		defer redisClient.Close()
		logger.Log.Info("Redis connection established")
	}

	// 5. Setup Repositories
	companyRepo := postgres.NewCompanyRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)

	// 6. Setup UseCases
	validator := schema.New(domain.JobOptions{
		Seniority:   cfg.SeniorityOptions,
		SalaryBands: cfg.SalaryBands,
		Categories:  cfg.JobCategories,
	})

	var logoCache domain.LogoCache
	if redisClient != nil {
		logoCache = cache.NewLogoCache(redisClient, time.Duration(cfg.LogoCacheTTLSeconds)*time.Second)
	}

	logoPolicy := usecase.LogoPolicy{
		MaxBytes:     cfg.MaxLogoBytes,
		MaxDimension: cfg.LogoMaxDimension,
	}
	if cfg.ClamAVAddr != "" {
		logoPolicy.Scanner = antivirus.NewClamAV(cfg.ClamAVAddr, time.Duration(cfg.ClamAVTimeoutSeconds)*time.Second)
		logger.Log.Info("Logo malware scanning enabled", "scanner", logoPolicy.Scanner.Name())
	}

	companyUC := usecase.NewCompanyUsecase(companyRepo, validator, logoCache, logoPolicy, cfg.ListLimit)
	jobUC := usecase.NewJobUsecase(jobRepo, validator, cfg.ListLimit)
	exportUC := usecase.NewExportUsecase(companyUC, jobUC)

	checks := map[string]usecase.HealthCheck{
		"postgres": dbPool.Ping,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redispkg.HealthCheck(ctx, redisClient)
		}
	}
	if logoPolicy.Scanner != nil {
		checks["clamav"] = logoPolicy.Scanner.Ping
	}
	healthUC := usecase.NewHealthUsecase(checks)

	// 7. Setup Rate Limiter
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	limiter := middleware.NewRateLimiter(redisClient)
	go limiter.RunCleanup(ctx, 5*time.Minute)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		CompanyUC:      companyUC,
		JobUC:          jobUC,
		ExportUC:       exportUC,
		HealthUC:       healthUC,
		RateLimiter:    limiter,
		WriteLimit:     middleware.WriteRateLimitConfig(cfg.RateLimitWriteThreshold, window),
		AllowedOrigins: cfg.AllowedOrigins(),
		Release:        cfg.IsRelease(),
		MaxLogoBytes:   cfg.MaxLogoBytes,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
