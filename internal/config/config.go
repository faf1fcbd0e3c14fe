package config

import (
	"os"
	"strconv"
	"time"

	"explore-sync.backend/internal/domain/entities"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Artifact ArtifactConfig
	Redis    RedisConfig
	Sources  SourcesConfig
	Matching MatchingConfig
	Sync     SyncConfig
	Slack    SlackConfig
	Security SecurityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds the run-history database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// ArtifactConfig holds the artifact database and upload configuration
type ArtifactConfig struct {
	// DatabasePath is where the SQLite artifact is built each run.
	DatabasePath string
	// ArchiveDir receives the zipped artifact before upload.
	ArchiveDir string
	// UploadDir is the object-store destination for published artifacts.
	UploadDir string
	// KeepDebugCSV also writes the merged list as CSV next to the archive.
	KeepDebugCSV bool
	// ForceUpload publishes even when the remote checksum already matches.
	ForceUpload bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// SourcesConfig holds per-upstream connection settings
type SourcesConfig struct {
	CTX          CTXConfig
	PiggyCards   PiggyCardsConfig
	CoinATMRadar CoinATMRadarConfig
	DCGSheet     DCGSheetConfig
}

// CTXConfig configures the CTX gift-card API client
type CTXConfig struct {
	BaseURL    string
	APIKey     string
	PageSize   int
	RatePerSec float64
	Timeout    time.Duration
}

// PiggyCardsConfig configures the PiggyCards gift-card API client
type PiggyCardsConfig struct {
	BaseURL    string
	APIUser    string
	APIKey     string
	RatePerSec float64
	Timeout    time.Duration
}

// CoinATMRadarConfig configures the ATM locator client
type CoinATMRadarConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// DCGSheetConfig configures the curated merchant spreadsheet source
type DCGSheetConfig struct {
	URL     string
	GID     string
	Timeout time.Duration
}

// MatchingConfig carries the tunable matcher parameters
type MatchingConfig struct {
	MaxDistance           float64
	MinNameSimilarity     float64
	MinConfidence         float64
	CoordinatePrecision   int
	IncludeAddress        bool
	ShowAllMatches        bool
	IgnoreName            bool
	IgnoreCity            bool
	IgnoreState           bool
	IgnoreZip             bool
	WeakCoordinateCeiling float64
	FairCoordinateCeiling float64
}

// Parameters converts the config block into matcher parameters.
func (c MatchingConfig) Parameters() entities.MatchingParameters {
	return entities.MatchingParameters{
		MaxDistance:           c.MaxDistance,
		MinNameSimilarity:     c.MinNameSimilarity,
		MinConfidence:         c.MinConfidence,
		CoordinatePrecision:   c.CoordinatePrecision,
		IncludeAddress:        c.IncludeAddress,
		ShowAllMatches:        c.ShowAllMatches,
		IgnoreName:            c.IgnoreName,
		IgnoreCity:            c.IgnoreCity,
		IgnoreState:           c.IgnoreState,
		IgnoreZip:             c.IgnoreZip,
		WeakCoordinateCeiling: c.WeakCoordinateCeiling,
		FairCoordinateCeiling: c.FairCoordinateCeiling,
	}
}

// SyncConfig holds pipeline scheduling configuration
type SyncConfig struct {
	Interval  time.Duration
	BatchSize int
	LockTTL   time.Duration
}

// SlackConfig holds the ops-channel webhook
type SlackConfig struct {
	WebhookURL string
	Channel    string
}

// SecurityConfig holds the trigger-endpoint credential
type SecurityConfig struct {
	// APIKeyHash is the bcrypt hash of the key allowed to trigger runs.
	APIKeyHash string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "exploresync"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Artifact: ArtifactConfig{
			DatabasePath: getEnv("ARTIFACT_DB_PATH", "./data/explore.db"),
			ArchiveDir:   getEnv("ARTIFACT_ARCHIVE_DIR", "./data/archive"),
			UploadDir:    getEnv("ARTIFACT_UPLOAD_DIR", "./data/upload"),
			KeepDebugCSV: getEnvAsBool("ARTIFACT_DEBUG_CSV", false),
			ForceUpload:  getEnvAsBool("ARTIFACT_FORCE_UPLOAD", false),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		Sources: SourcesConfig{
			CTX: CTXConfig{
				BaseURL:    getEnv("CTX_BASE_URL", "https://api.ctx.com"),
				APIKey:     getEnv("CTX_API_KEY", ""),
				PageSize:   getEnvAsInt("CTX_PAGE_SIZE", 100),
				RatePerSec: getEnvAsFloat("CTX_RATE_PER_SEC", 5),
				Timeout:    getEnvAsDuration("CTX_TIMEOUT", 30*time.Second),
			},
			PiggyCards: PiggyCardsConfig{
				BaseURL:    getEnv("PIGGYCARDS_BASE_URL", "https://api.piggy.cards"),
				APIUser:    getEnv("PIGGYCARDS_API_USER", ""),
				APIKey:     getEnv("PIGGYCARDS_API_KEY", ""),
				RatePerSec: getEnvAsFloat("PIGGYCARDS_RATE_PER_SEC", 5),
				Timeout:    getEnvAsDuration("PIGGYCARDS_TIMEOUT", 30*time.Second),
			},
			CoinATMRadar: CoinATMRadarConfig{
				BaseURL: getEnv("COINATMRADAR_BASE_URL", "https://coinatmradar.info/api/lite"),
				APIKey:  getEnv("COINATMRADAR_API_KEY", ""),
				Timeout: getEnvAsDuration("COINATMRADAR_TIMEOUT", 60*time.Second),
			},
			DCGSheet: DCGSheetConfig{
				URL:     getEnv("DCG_SHEET_URL", ""),
				GID:     getEnv("DCG_SHEET_GID", "0"),
				Timeout: getEnvAsDuration("DCG_SHEET_TIMEOUT", 30*time.Second),
			},
		},
		Matching: MatchingConfig{
			MaxDistance:           getEnvAsFloat("MATCH_MAX_DISTANCE_MILES", 0.2),
			MinNameSimilarity:     getEnvAsFloat("MATCH_MIN_NAME_SIMILARITY", 0.9),
			MinConfidence:         getEnvAsFloat("MATCH_MIN_CONFIDENCE", 0.8),
			CoordinatePrecision:   getEnvAsInt("MATCH_COORDINATE_PRECISION", 4),
			IncludeAddress:        getEnvAsBool("MATCH_INCLUDE_ADDRESS", true),
			ShowAllMatches:        getEnvAsBool("MATCH_SHOW_ALL_MATCHES", true),
			IgnoreName:            getEnvAsBool("MATCH_IGNORE_NAME", false),
			IgnoreCity:            getEnvAsBool("MATCH_IGNORE_CITY", true),
			IgnoreState:           getEnvAsBool("MATCH_IGNORE_STATE", true),
			IgnoreZip:             getEnvAsBool("MATCH_IGNORE_ZIP", true),
			WeakCoordinateCeiling: getEnvAsFloat("MATCH_WEAK_COORD_CEILING", 0.4),
			FairCoordinateCeiling: getEnvAsFloat("MATCH_FAIR_COORD_CEILING", 0.6),
		},
		Sync: SyncConfig{
			Interval:  getEnvAsDuration("SYNC_INTERVAL", 24*time.Hour),
			BatchSize: getEnvAsInt("SYNC_BATCH_SIZE", 500),
			LockTTL:   getEnvAsDuration("SYNC_LOCK_TTL", 2*time.Hour),
		},
		Slack: SlackConfig{
			WebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
			Channel:    getEnv("SLACK_CHANNEL", "#explore-sync"),
		},
		Security: SecurityConfig{
			APIKeyHash: getEnv("SYNC_API_KEY_HASH", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
