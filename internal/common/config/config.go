// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Engine        EngineConfig       `mapstructure:"engine"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Cache         CacheConfig        `mapstructure:"cache"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Notifications NotificationConfig `mapstructure:"notifications"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// EngineConfig holds the tunables of the classification engine.
type EngineConfig struct {
	// Timezone is the IANA zone all day arithmetic normalizes to.
	Timezone string `mapstructure:"timezone"`

	// AmberDueSoonDays is the amber-card window.
	AmberDueSoonDays int `mapstructure:"amber_due_soon_days"`
	// UrgentWindowDays and EarlyWindowDays bound tiers 2 and 1 of the
	// unified alert view.
	UrgentWindowDays int `mapstructure:"urgent_window_days"`
	EarlyWindowDays  int `mapstructure:"early_window_days"`

	// SnapshotLimit bounds the prioritized worklist.
	SnapshotLimit int `mapstructure:"snapshot_limit"`

	// ProjectionDamping is the conservatism factor on the naive daily
	// completion rate. Tunable, defaults to 0.8.
	ProjectionDamping float64 `mapstructure:"projection_damping"`

	// DefaultHorizonDays is the projection horizon used when a caller
	// does not pick one. Must be 7, 30 or 90.
	DefaultHorizonDays int `mapstructure:"default_horizon_days"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig bounds the in-process memo layer and the Redis snapshot cache.
type CacheConfig struct {
	// Capacity is the LRU entry bound of the in-process memo.
	Capacity int `mapstructure:"capacity"`
	// TTLSeconds bounds how long a serialized evaluation lives in Redis.
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NotificationConfig drives the dispatcher that executes suggested actions.
// The engine itself never sends anything.
type NotificationConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Region             string `mapstructure:"region"`
	SenderEmail        string `mapstructure:"sender_email"`
	RecipientEmail     string `mapstructure:"recipient_email"`
	EscalationTopicARN string `mapstructure:"escalation_topic_arn"`
}
