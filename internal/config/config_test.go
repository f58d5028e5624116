package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kenang-app/kenang-billing/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsAndEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", t.TempDir())
	t.Setenv("BILLING_MIDTRANS_SERVER_KEY", "SB-Mid-server-abc")
	t.Setenv("BILLING_MIDTRANS_CLIENT_KEY", "SB-Mid-client-abc")
	t.Setenv("BILLING_SWEEPER_INTERVAL", "30s")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.GRPC.Addr())
	assert.Equal(t, 30*time.Second, cfg.Midtrans.Timeout)
	assert.True(t, cfg.Midtrans.Configured())
	assert.Equal(t, 30*time.Second, cfg.Sweeper.Interval)
	assert.Equal(t, "billing.events", cfg.Redis.EventChannel)
	assert.Contains(t, cfg.Database.DSN(), "sslmode=disable")
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "billing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
service:
  app_url: https://kenang.id
  environment: production
midtrans:
  server_key: Mid-server-live
  is_production: true
`), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://kenang.id", cfg.Service.AppURL)
	assert.True(t, cfg.Service.IsProduction())
	assert.True(t, cfg.Midtrans.IsProduction)
	assert.False(t, cfg.Midtrans.Configured(), "client key is still empty")
}

func TestLoadConfig_InvalidAppURL(t *testing.T) {
	t.Setenv("CONFIG_PATH", t.TempDir())
	t.Setenv("BILLING_SERVICE_APP_URL", "not a url")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}
