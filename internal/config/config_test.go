package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 0.01, cfg.BalanceTolerance)
	assert.Equal(t, 10000, cfg.MaxLines)
	assert.Equal(t, 5000, cfg.BatchSize)
	assert.Equal(t, 52428800, cfg.UploadMaxSize)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessExpire)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("BALANCE_TOLERANCE", "0.05")
	t.Setenv("MAX_LINES", "500")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, 0.05, cfg.BalanceTolerance)
	assert.Equal(t, 500, cfg.MaxLines)
	assert.Equal(t, 90*time.Second, cfg.DBConnMaxLifetime)
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		DBUsername: "finguard",
		DBPassword: "secret",
		DBHost:     "db.local",
		DBPort:     "3306",
		DBDatabase: "finguard",
	}
	assert.Equal(t, "finguard:secret@tcp(db.local:3306)/finguard?parseTime=true&loc=Local", cfg.GetDSN())
}
