package main

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"explore-sync.backend/internal/config"
)

func withMainHooks(t *testing.T) {
	t.Helper()
	origLoadDotenv := loadDotenv
	origLoadCfg := loadCfg
	origInitLog := initLog
	origInitRedis := initRedis
	origOpenRunDB := openRunDB
	origOpenArtifact := openArtifact
	origRunServer := runServer

	t.Cleanup(func() {
		loadDotenv = origLoadDotenv
		loadCfg = origLoadCfg
		initLog = origInitLog
		initRedis = origInitRedis
		openRunDB = origOpenRunDB
		openArtifact = origOpenArtifact
		runServer = origRunServer
	})
}

func baseTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Server: config.ServerConfig{
			Port: "18080",
			Env:  "development",
		},
		Database: config.DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			DBName:   "explore",
			SSLMode:  "disable",
		},
		Artifact: config.ArtifactConfig{
			DatabasePath: filepath.Join(dir, "explore.db"),
			ArchiveDir:   filepath.Join(dir, "archive"),
			UploadDir:    filepath.Join(dir, "upload"),
		},
		Redis: config.RedisConfig{
			URL: "redis://localhost:6379",
		},
		Sync: config.SyncConfig{
			Interval:  time.Hour,
			BatchSize: 500,
			LockTTL:   2 * time.Hour,
		},
	}
}

func stubCommonHooks(t *testing.T, cfg *config.Config) {
	t.Helper()
	loadDotenv = func(...string) error { return nil }
	loadCfg = func() *config.Config { return cfg }
	openRunDB = func(_ config.DatabaseConfig) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	}
}

func TestRunMainProcess_Boots(t *testing.T) {
	withMainHooks(t)

	redisSrv := miniredis.RunT(t)
	cfg := baseTestConfig(t)
	cfg.Redis.URL = "redis://" + redisSrv.Addr()
	stubCommonHooks(t, cfg)

	runServer = func(_ *gin.Engine, port string) error {
		if port != "18080" {
			t.Errorf("unexpected port %s", port)
		}
		return nil
	}

	if err := runMainProcess(); err != nil {
		t.Fatalf("runMainProcess: %v", err)
	}
}

func TestRunMainProcess_RedisInitFailure(t *testing.T) {
	withMainHooks(t)

	cfg := baseTestConfig(t)
	stubCommonHooks(t, cfg)
	initRedis = func(_, _ string) error { return errors.New("redis down") }

	err := runMainProcess()
	if err == nil {
		t.Fatal("expected error when redis init fails")
	}
}

func TestRunMainProcess_RunDBFailure(t *testing.T) {
	withMainHooks(t)

	redisSrv := miniredis.RunT(t)
	cfg := baseTestConfig(t)
	cfg.Redis.URL = "redis://" + redisSrv.Addr()
	stubCommonHooks(t, cfg)
	openRunDB = func(_ config.DatabaseConfig) (*gorm.DB, error) {
		return nil, errors.New("connection refused")
	}

	err := runMainProcess()
	if err == nil {
		t.Fatal("expected error when run-history database is unavailable")
	}
}

func TestRunMainProcess_ServerFailure(t *testing.T) {
	withMainHooks(t)

	redisSrv := miniredis.RunT(t)
	cfg := baseTestConfig(t)
	cfg.Redis.URL = "redis://" + redisSrv.Addr()
	stubCommonHooks(t, cfg)
	runServer = func(_ *gin.Engine, _ string) error { return errors.New("listen failed") }

	err := runMainProcess()
	if err == nil {
		t.Fatal("expected error when server fails to start")
	}
}
