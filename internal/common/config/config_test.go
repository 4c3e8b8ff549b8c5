// internal/common/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultedConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := defaultedConfig()

	assert.Equal(t, "Asia/Bangkok", cfg.Engine.Timezone)
	assert.Equal(t, 3, cfg.Engine.AmberDueSoonDays)
	assert.Equal(t, 3, cfg.Engine.UrgentWindowDays)
	assert.Equal(t, 7, cfg.Engine.EarlyWindowDays)
	assert.Equal(t, 5, cfg.Engine.SnapshotLimit)
	assert.InDelta(t, 0.8, cfg.Engine.ProjectionDamping, 1e-9)
	assert.Equal(t, 30, cfg.Engine.DefaultHorizonDays)
	assert.Equal(t, 128, cfg.Cache.Capacity)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Engine.Timezone = "UTC"
	cfg.Engine.SnapshotLimit = 10
	ApplyDefaults(cfg)

	assert.Equal(t, "UTC", cfg.Engine.Timezone)
	assert.Equal(t, 10, cfg.Engine.SnapshotLimit)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "unknown timezone",
			mutate:  func(cfg *Config) { cfg.Engine.Timezone = "Not/AZone" },
			wantErr: "engine.timezone",
		},
		{
			name:    "negative window",
			mutate:  func(cfg *Config) { cfg.Engine.AmberDueSoonDays = -1 },
			wantErr: "must not be negative",
		},
		{
			name: "early window below urgent window",
			mutate: func(cfg *Config) {
				cfg.Engine.UrgentWindowDays = 10
				cfg.Engine.EarlyWindowDays = 5
			},
			wantErr: "early_window_days",
		},
		{
			name:    "damping above one",
			mutate:  func(cfg *Config) { cfg.Engine.ProjectionDamping = 1.5 },
			wantErr: "projection_damping",
		},
		{
			name:    "horizon outside the allowed set",
			mutate:  func(cfg *Config) { cfg.Engine.DefaultHorizonDays = 14 },
			wantErr: "default_horizon_days",
		},
		{
			name:    "zero cache capacity",
			mutate:  func(cfg *Config) { cfg.Cache.Capacity = -4 },
			wantErr: "cache.capacity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultedConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "svc", Password: "secret", Database: "compliance", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=svc password=secret dbname=compliance sslmode=disable", p.GetDSN())
}
