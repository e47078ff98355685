package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "PORT", "CORS_ORIGINS", "ENV", "LOG_LEVEL", "MIGRATE_ON_START", "BCRYPT_COST", "RATE_LIMIT_PER_MINUTE", "RATE_LIMIT_BURST"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/budgetly")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.MigrateOnStart)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.Equal(t, 100, cfg.RateLimitPerMinute)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/budgetly")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("ENV", "production")
	t.Setenv("MIGRATE_ON_START", "false")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.MigrateOnStart)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database url", map[string]string{}},
		{"non-numeric rate", map[string]string{"DATABASE_URL": "x", "RATE_LIMIT_PER_MINUTE": "lots"}},
		{"zero burst", map[string]string{"DATABASE_URL": "x", "RATE_LIMIT_BURST": "0"}},
		{"bcrypt cost too high", map[string]string{"DATABASE_URL": "x", "BCRYPT_COST": "99"}},
		{"bad bool", map[string]string{"DATABASE_URL": "x", "MIGRATE_ON_START": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
