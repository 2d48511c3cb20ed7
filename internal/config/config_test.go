package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", validSecret)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 12*time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, time.Minute, cfg.Stats.Interval)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAMLThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
  allowed_origins: ["https://app.example.com"]
mongo:
  database: crm_yaml
smtp:
  host: smtp.example.com
  port: 2525
  enabled: true
stats:
  interval: 30s
`), 0o600))

	t.Setenv("MONGO_DB", "crm_env")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("RABBITMQ_ENABLED", "true")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "crm_env", cfg.Mongo.Database)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Stats.Interval)
	assert.True(t, cfg.RabbitMQ.Enabled)
}

func TestLoadRejectsMalformedEnvironment(t *testing.T) {
	t.Setenv("STATS_INTERVAL", "soon")

	_, err := Load("")

	assert.ErrorContains(t, err, "STATS_INTERVAL")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := defaults()
	cfg.JWT.Secret = "short"
	cfg.SMTP.Enabled = true

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
	assert.Contains(t, err.Error(), "MAIL_HOST")
}

func TestValidateRequiresSecret(t *testing.T) {
	cfg := defaults()
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET is required")
}
