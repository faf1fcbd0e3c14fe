package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"explore-sync.backend/internal/config"
	"explore-sync.backend/internal/infrastructure/datasources/postgres"
	"explore-sync.backend/internal/infrastructure/datasources/sqlite"
	"explore-sync.backend/internal/infrastructure/export"
	"explore-sync.backend/internal/infrastructure/models"
	"explore-sync.backend/internal/infrastructure/notify"
	"explore-sync.backend/internal/infrastructure/repositories"
	"explore-sync.backend/internal/infrastructure/sources/coinatmradar"
	"explore-sync.backend/internal/infrastructure/sources/ctxspend"
	"explore-sync.backend/internal/infrastructure/sources/dcgsheet"
	"explore-sync.backend/internal/infrastructure/sources/piggycards"
	"explore-sync.backend/internal/infrastructure/storage"
	"explore-sync.backend/internal/usecases"
	"explore-sync.backend/pkg/logger"
	"explore-sync.backend/pkg/redis"
)

// One-shot runner: executes a single sync and exits. Meant for cron or
// manual invocation where the long-running server is not wanted.

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
)

func main() {
	if err := runOnce(); err != nil {
		log.Fatal(err)
	}
}

func runOnce() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()
	initLog(cfg.Server.Env)

	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}

	runDB, err := openRunDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to run-history database: %w", err)
	}
	if err := runDB.AutoMigrate(&models.SyncRun{}); err != nil {
		return fmt.Errorf("failed to migrate run-history schema: %w", err)
	}

	artifactDB, err := openArtifact(cfg.Artifact.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open artifact database: %w", err)
	}

	registry := usecases.NewNameRegistry()
	matcher := usecases.NewLocationMatcher(cfg.Matching.Parameters())
	resolver := usecases.NewMergeResolver(registry, matcher)
	differ := usecases.NewDiffReporter(registry)

	merchantSources := []usecases.MerchantSource{
		dcgsheet.NewMerchantSource(cfg.Sources.DCGSheet, registry),
		ctxspend.NewMerchantSource(ctxspend.NewClient(cfg.Sources.CTX), registry),
		piggycards.NewMerchantSource(piggycards.NewClient(cfg.Sources.PiggyCards), registry),
	}

	syncUsecase := usecases.NewSyncUsecase(
		merchantSources,
		coinatmradar.NewAtmSource(cfg.Sources.CoinATMRadar),
		resolver, differ,
		repositories.NewLocationRepository(artifactDB),
		repositories.NewGiftCardProviderRepository(artifactDB),
		repositories.NewMatchAuditRepository(artifactDB),
		repositories.NewAtmRepository(artifactDB),
		repositories.NewSnapshotRepository(artifactDB),
		repositories.NewSyncRunRepository(runDB),
		redis.NewRunLock(cfg.Sync.LockTTL),
		storage.NewPublisher(cfg.Artifact, storage.NewLocalStore(cfg.Artifact.UploadDir)),
		notify.NewSlackNotifier(cfg.Slack),
		cfg.Sync.BatchSize,
	)
	if cfg.Artifact.KeepDebugCSV {
		syncUsecase.SetExporter(export.NewCSVExporter(cfg.Artifact.ArchiveDir, true))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Interrupt received, cancelling run...")
		cancel()
	}()

	report, err := syncUsecase.Run(ctx)
	if err != nil {
		return fmt.Errorf("sync run failed: %w", err)
	}
	log.Printf("✅ Sync completed: %d merchants, %d locations, %d ATMs",
		report.TotalMerchants, report.TotalLocations, report.TotalAtms)
	return nil
}
