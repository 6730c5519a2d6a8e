package common

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	t.Setenv(EnvKeySecDBType, "memory")
	t.Setenv(EnvKeySecJwtSecret, "")

	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "memory", cfg.DBType)
	assert.Equal(t, ":1080", cfg.HttpHostPort)
	assert.Equal(t, time.Second, cfg.SampleInterval)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.SeedCameras)
	assert.NotEmpty(t, cfg.JwtSecret, "dev secret is filled outside production")
	assert.Empty(t, cfg.AdminEmails)
}

func TestConfigAdminEmails(t *testing.T) {
	t.Setenv(EnvKeySecDBType, "memory")
	t.Setenv(EnvKeySecAdminEmails, "owner@example.com,ops@example.com")

	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))
	assert.Equal(t, []string{"owner@example.com", "ops@example.com"}, cfg.AdminEmails)
}

func TestConfigValidate_EdgeCases(t *testing.T) {
	base := func() *Config {
		return &Config{
			DBType:         "memory",
			SampleInterval: time.Second,
			SessionTTL:     time.Hour,
			JwtSecret:      "x",
		}
	}

	{
		cfg := base()
		cfg.DBType = "postgres"
		assert.Error(t, cfg.Validate())
	}

	{
		cfg := base()
		cfg.SampleInterval = 0
		assert.Error(t, cfg.Validate())
	}

	{
		cfg := base()
		cfg.DefaultBurst = -1
		assert.Error(t, cfg.Validate())
	}

	{
		t.Setenv(EnvKeyGoEnv, "production")
		cfg := base()
		cfg.JwtSecret = ""
		assert.Error(t, cfg.Validate())
	}
}
