// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like ENGINE_TIMEZONE or DATABASE_POSTGRES_HOST.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, e.g. config.production.yaml; optional.
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries the usual .env locations so the loader works from the
// repo root, a cmd directory or a package test directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// ApplyDefaults fills the zero values of every tunable.
func ApplyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "compliance-engine"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Engine.Timezone == "" {
		cfg.Engine.Timezone = "Asia/Bangkok"
	}
	if cfg.Engine.AmberDueSoonDays == 0 {
		cfg.Engine.AmberDueSoonDays = 3
	}
	if cfg.Engine.UrgentWindowDays == 0 {
		cfg.Engine.UrgentWindowDays = 3
	}
	if cfg.Engine.EarlyWindowDays == 0 {
		cfg.Engine.EarlyWindowDays = 7
	}
	if cfg.Engine.SnapshotLimit == 0 {
		cfg.Engine.SnapshotLimit = 5
	}
	if cfg.Engine.ProjectionDamping == 0 {
		cfg.Engine.ProjectionDamping = 0.8
	}
	if cfg.Engine.DefaultHorizonDays == 0 {
		cfg.Engine.DefaultHorizonDays = 30
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}

	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = 128
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = int((5 * time.Minute).Seconds())
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// Validate rejects configurations the engine cannot run with.
func Validate(cfg *Config) error {
	if _, err := time.LoadLocation(cfg.Engine.Timezone); err != nil {
		return fmt.Errorf("engine.timezone %q: %w", cfg.Engine.Timezone, err)
	}
	if cfg.Engine.AmberDueSoonDays < 0 || cfg.Engine.UrgentWindowDays < 0 || cfg.Engine.EarlyWindowDays < 0 {
		return fmt.Errorf("engine day windows must not be negative")
	}
	if cfg.Engine.EarlyWindowDays < cfg.Engine.UrgentWindowDays {
		return fmt.Errorf("engine.early_window_days (%d) must not be below engine.urgent_window_days (%d)",
			cfg.Engine.EarlyWindowDays, cfg.Engine.UrgentWindowDays)
	}
	if cfg.Engine.SnapshotLimit < 1 {
		return fmt.Errorf("engine.snapshot_limit must be at least 1")
	}
	if cfg.Engine.ProjectionDamping <= 0 || cfg.Engine.ProjectionDamping > 1 {
		return fmt.Errorf("engine.projection_damping must be in (0, 1]")
	}
	switch cfg.Engine.DefaultHorizonDays {
	case 7, 30, 90:
	default:
		return fmt.Errorf("engine.default_horizon_days must be 7, 30 or 90, got %d", cfg.Engine.DefaultHorizonDays)
	}
	if cfg.Cache.Capacity < 1 {
		return fmt.Errorf("cache.capacity must be at least 1")
	}
	return nil
}
