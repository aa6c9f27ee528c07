package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Env)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "/connect/token", cfg.Endpoints.Token)
	assert.Equal(t, "/connect/userinfo", cfg.Endpoints.UserInfo)
	assert.Equal(t, "default-client", cfg.DefaultClient.ClientID)
	assert.Equal(t, []string{"token"}, cfg.DefaultClient.Endpoints)
	assert.Equal(t, []string{"password"}, cfg.DefaultClient.GrantTypes)
	assert.ElementsMatch(t, []string{"roles", "offline_access", "email", "profile"}, cfg.DefaultClient.Scopes)
	assert.Equal(t, "Admin", cfg.SeedUser.Role)
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL())
	assert.Equal(t, 10, cfg.Rate.Token.Limit)
	assert.Equal(t, time.Minute, cfg.RateWindow())
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "littlejohn.yaml")
	yaml := `
app:
  env: prod
server:
  addr: ":9090"
jwt:
  access_ttl: 15m
default_client:
  client_id: my-client
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	// la env gana sobre el YAML
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("JWT_ACCESS_TTL", "5m")
	t.Setenv("DEFAULT_CLIENT_SCOPES", "profile, email")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.App.Env)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 5*time.Minute, cfg.AccessTTL())
	assert.Equal(t, "my-client", cfg.DefaultClient.ClientID)
	assert.Equal(t, []string{"profile", "email"}, cfg.DefaultClient.Scopes)
}

func TestLoad_InvalidTTLFallsBack(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL", "not-a-duration")
	t.Setenv("JWT_REFRESH_TTL", "-1h")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL())
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	require.Error(t, err)
}
