package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("BOOKKEEPER_IDENTITY", "")
	t.Setenv("BOOKKEEPER_PERIOD", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("BOOKKEEPER_DATA_PATH", "")
	t.Setenv("HTTP_ADDR", "")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "demo@smallbusiness.com", cfg.Identity)
	assert.Equal(t, time.Now().Format("2006-01"), cfg.Period)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "./data/bookkeeper.db", cfg.DataPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.False(t, cfg.IsProd())
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("BOOKKEEPER_IDENTITY", "me@example.com")
	t.Setenv("BOOKKEEPER_PERIOD", "2026-03")
	t.Setenv("ENVIRONMENT", "prod")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "me@example.com", cfg.Identity)
	assert.Equal(t, "2026-03", cfg.Period)
	assert.True(t, cfg.IsProd())
}

func TestLoadFromEnvRejectsBadPeriod(t *testing.T) {
	t.Setenv("BOOKKEEPER_PERIOD", "March 2026")

	_, err := LoadFromEnv()
	assert.Error(t, err)
}

func TestValidatePeriod(t *testing.T) {
	assert.NoError(t, ValidatePeriod("2026-01"))
	assert.NoError(t, ValidatePeriod("1999-12"))
	assert.Error(t, ValidatePeriod("2026-13"))
	assert.Error(t, ValidatePeriod("2026-1"))
	assert.Error(t, ValidatePeriod("2026"))
	assert.Error(t, ValidatePeriod(""))
}
