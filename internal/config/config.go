// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Host     string
	Port     int
	DataDir  string // Base directory for all databases (always absolute)
	LogLevel string
	DevMode  bool

	CORSOrigins []string

	// Auth
	JWTSecret   string
	TokenExpiry time.Duration

	// Gold price supplier
	GoldAPIURL   string
	GoldAPIKey   string
	GoldCacheTTL time.Duration

	// Cron schedules, env-overridable
	GoldRefreshSchedule  string
	SnapshotSchedule     string
	CacheCleanupSchedule string
	BackupSchedule       string

	Backup BackupConfig
}

// BackupConfig holds S3-compatible backup target settings.
// An empty Endpoint disables the backup subsystem.
type BackupConfig struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	RetentionDays int
}

// Enabled reports whether a backup target is configured.
func (b BackupConfig) Enabled() bool {
	return b.Endpoint != "" && b.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Resolve the data directory to an absolute path and make sure it exists;
	// all three databases and the backup staging area live under it.
	dataDir := getEnv("DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		Host:     getEnv("HOST", "0.0.0.0"),
		Port:     getEnvAsInt("PORT", 8001),
		DataDir:  absDataDir,
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DevMode:  getEnvAsBool("DEV_MODE", false),

		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "*")),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenExpiry: time.Duration(getEnvAsInt("TOKEN_EXPIRY_MINUTES", 30)) * time.Minute,

		GoldAPIURL:   getEnv("GOLD_API_URL", ""),
		GoldAPIKey:   getEnv("GOLD_API_KEY", ""),
		GoldCacheTTL: time.Duration(getEnvAsInt("GOLD_CACHE_TTL_MINUTES", 60)) * time.Minute,

		GoldRefreshSchedule:  getEnv("GOLD_REFRESH_SCHEDULE", "0 * * * *"),
		SnapshotSchedule:     getEnv("SNAPSHOT_SCHEDULE", "0 2 * * *"),
		CacheCleanupSchedule: getEnv("CACHE_CLEANUP_SCHEDULE", "30 3 * * *"),
		BackupSchedule:       getEnv("BACKUP_SCHEDULE", "0 4 * * 0"),

		Backup: BackupConfig{
			Endpoint:      getEnv("BACKUP_S3_ENDPOINT", ""),
			Region:        getEnv("BACKUP_S3_REGION", "auto"),
			Bucket:        getEnv("BACKUP_S3_BUCKET", ""),
			AccessKey:     getEnv("BACKUP_S3_ACCESS_KEY", ""),
			SecretKey:     getEnv("BACKUP_S3_SECRET_KEY", ""),
			RetentionDays: getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.JWTSecret == "" {
		if !c.DevMode {
			return fmt.Errorf("JWT_SECRET is required outside dev mode")
		}
		// Dev fallback keeps local startup friction-free.
		c.JWTSecret = "dev-secret-do-not-use-in-production"
	}
	if c.TokenExpiry <= 0 {
		return fmt.Errorf("TOKEN_EXPIRY_MINUTES must be positive")
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabasePath returns the path of a named database file under DataDir.
func (c *Config) DatabasePath(name string) string {
	return filepath.Join(c.DataDir, name)
}

// Helper functions
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
