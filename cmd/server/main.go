package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"explore-sync.backend/internal/config"
	"explore-sync.backend/internal/infrastructure/datasources/postgres"
	"explore-sync.backend/internal/infrastructure/datasources/sqlite"
	"explore-sync.backend/internal/infrastructure/export"
	"explore-sync.backend/internal/infrastructure/jobs"
	"explore-sync.backend/internal/infrastructure/models"
	"explore-sync.backend/internal/infrastructure/notify"
	"explore-sync.backend/internal/infrastructure/repositories"
	"explore-sync.backend/internal/infrastructure/sources/coinatmradar"
	"explore-sync.backend/internal/infrastructure/sources/ctxspend"
	"explore-sync.backend/internal/infrastructure/sources/dcgsheet"
	"explore-sync.backend/internal/infrastructure/sources/piggycards"
	"explore-sync.backend/internal/infrastructure/storage"
	"explore-sync.backend/internal/interfaces/http/handlers"
	"explore-sync.backend/internal/interfaces/http/middleware"
	"explore-sync.backend/internal/usecases"
	"explore-sync.backend/pkg/logger"
	"explore-sync.backend/pkg/redis"
)

const serviceVersion = "0.2.0"

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openRunDB  = func(cfg config.DatabaseConfig) (*gorm.DB, error) {
		sqlDB, err := postgres.NewConnection(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.NewGormDB(sqlDB)
	}
	openArtifact = sqlite.OpenArtifact
	runServer    = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis (run lock + cancel flag)
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Run-history database (PostgreSQL)
	runDB, err := openRunDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to run-history database: %w", err)
	}
	if err := runDB.AutoMigrate(&models.SyncRun{}); err != nil {
		return fmt.Errorf("failed to migrate run-history schema: %w", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	// Artifact database (SQLite, rebuilt every run)
	artifactDB, err := openArtifact(cfg.Artifact.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open artifact database: %w", err)
	}
	log.Printf("✅ Artifact database ready at %s", cfg.Artifact.DatabasePath)

	// Repositories
	locationRepo := repositories.NewLocationRepository(artifactDB)
	providerRepo := repositories.NewGiftCardProviderRepository(artifactDB)
	matchRepo := repositories.NewMatchAuditRepository(artifactDB)
	atmRepo := repositories.NewAtmRepository(artifactDB)
	snapshotRepo := repositories.NewSnapshotRepository(artifactDB)
	runRepo := repositories.NewSyncRunRepository(runDB)

	// Merge engine
	registry := usecases.NewNameRegistry()
	matcher := usecases.NewLocationMatcher(cfg.Matching.Parameters())
	resolver := usecases.NewMergeResolver(registry, matcher)
	differ := usecases.NewDiffReporter(registry)

	// Source connectors. DCG comes first so curated data wins merges.
	merchantSources := []usecases.MerchantSource{
		dcgsheet.NewMerchantSource(cfg.Sources.DCGSheet, registry),
		ctxspend.NewMerchantSource(ctxspend.NewClient(cfg.Sources.CTX), registry),
		piggycards.NewMerchantSource(piggycards.NewClient(cfg.Sources.PiggyCards), registry),
	}
	atmSource := coinatmradar.NewAtmSource(cfg.Sources.CoinATMRadar)

	// Publishing
	lock := redis.NewRunLock(cfg.Sync.LockTTL)
	publisher := storage.NewPublisher(cfg.Artifact, storage.NewLocalStore(cfg.Artifact.UploadDir))
	notifier := notify.NewSlackNotifier(cfg.Slack)

	syncUsecase := usecases.NewSyncUsecase(
		merchantSources, atmSource,
		resolver, differ,
		locationRepo, providerRepo, matchRepo, atmRepo,
		snapshotRepo, runRepo,
		lock, publisher, notifier,
		cfg.Sync.BatchSize,
	)
	if cfg.Artifact.KeepDebugCSV {
		syncUsecase.SetExporter(export.NewCSVExporter(cfg.Artifact.ArchiveDir, true))
	}

	// Handlers
	healthHandler := handlers.NewHealthHandler(serviceVersion)
	syncHandler := handlers.NewSyncHandler(syncUsecase, lock, runRepo, matchRepo)

	apiKeyMiddleware := middleware.APIKeyMiddleware(cfg.Security.APIKeyHash)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	schedulerJob := jobs.NewSyncSchedulerJob(syncUsecase, cfg.Sync.Interval)
	go schedulerJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r, healthHandler)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		syncHandler:      syncHandler,
		apiKeyMiddleware: apiKeyMiddleware,
	})

	// Print all registered routes for debugging
	log.Println("📋 Registered Routes:")
	for _, route := range r.Routes() {
		log.Printf("   %s %s", route.Method, route.Path)
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		schedulerJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 Explore Sync starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
