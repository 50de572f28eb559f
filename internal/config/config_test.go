package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir into an empty dir so no stray .env or config.yaml is picked up
func isolate(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, k := range []string{"JWT_SECRET", "CLINIC_JWT_SECRET", "DATABASE_URL", "CLINIC_DATABASE_URL", "PORT", "WEB_PORT"} {
		t.Setenv(k, "")
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	isolate(t)
	_, err := Load("")
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("JWT_SECRET", "from-env")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, time.Hour, c.JWT.TTL)
	assert.Equal(t, 10, c.Security.BcryptCost)
	assert.Equal(t, "8080", c.Server.HTTPPort)
	assert.Equal(t, "50051", c.Server.GRPCPort)
	assert.Equal(t, "release", c.Server.Mode)
	assert.True(t, c.Database.Migrate)
	assert.Equal(t, 10, c.RateLimit.Burst)
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "clinic.yaml")
	yaml := `
server:
  http_port: "9000"
  mode: debug
jwt:
  secret: yaml-secret
  ttl: 30m
security:
  bcrypt_cost: 12
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CLINIC_SERVER_HTTP_PORT", "9100")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", c.Server.HTTPPort)
	assert.Equal(t, "debug", c.Server.Mode)
	assert.Equal(t, "yaml-secret", c.JWT.Secret)
	assert.Equal(t, 30*time.Minute, c.JWT.TTL)
	assert.Equal(t, 12, c.Security.BcryptCost)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	t.Setenv("JWT_SECRET", "x")
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	isolate(t)
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("CLINIC_SERVER_MODE", "prod")
	_, err := Load("")
	assert.ErrorContains(t, err, "server.mode")
}
