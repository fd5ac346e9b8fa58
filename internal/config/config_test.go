package config_test

import (
	"os"
	"path/filepath"
	"proplookup/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
environment: production
http:
  addr: ":9090"
  corsOrigins: ["https://app.example.com"]
skipTrace:
  token: bd-token
  timeout: 5s
phoneValidation:
  provider: phonevalidator
  apiKey: pv-key
batch:
  maxRows: 75
tracing:
  enabled: true
`

func TestLoad_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, ":9090", cfg.HTTP.Addr)
	require.Equal(t, []string{"https://app.example.com"}, cfg.HTTP.CORSOrigins)
	require.Equal(t, "/metrics", cfg.HTTP.MetricsPath)
	require.Equal(t, "bd-token", cfg.SkipTrace.Token)
	require.Equal(t, 5*time.Second, cfg.SkipTrace.Timeout)
	require.Equal(t, 10*time.Second, cfg.PhoneValidation.Timeout)
	require.Equal(t, "phonevalidator", cfg.PhoneValidation.Name)
	require.Equal(t, 75, cfg.Batch.MaxRows)
	require.Equal(t, 4, cfg.Batch.Concurrency)
	require.True(t, cfg.Tracing.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoad_envOnly(t *testing.T) {
	t.Setenv("SKIP_TRACE_TOKEN", "env-token")
	t.Setenv("SKIP_TRACE_BASE_URL", "http://localhost:9999")
	t.Setenv("PHONE_VALIDATION_API_KEY", "env-key")
	t.Setenv("BATCH_MAX_ROWS", "3")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "env-token", cfg.SkipTrace.Token)
	require.Equal(t, "http://localhost:9999", cfg.SkipTrace.BaseURL)
	require.Equal(t, "numverify", cfg.PhoneValidation.Name)
	require.Equal(t, "US", cfg.PhoneValidation.CountryCode)
	require.Equal(t, 3, cfg.Batch.MaxRows)
	require.False(t, cfg.Tracing.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestValidate_missingCredentials(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "Token")
	require.Contains(t, err.Error(), "APIKey")
}
