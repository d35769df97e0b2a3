package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "dev", c.App.Env)
	assert.Equal(t, "info", c.App.LogLevel)
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, 20, c.CRUD.DefaultPageSize)
	assert.Equal(t, 200, c.CRUD.MaxPageSize)
	assert.Equal(t, "memory", c.Realtime.Kind)
	assert.Equal(t, 300*time.Millisecond, c.SearchDebounceWindow())
	assert.Equal(t, time.Second, c.RealtimeWindow())
}

func TestLoad_YAML(t *testing.T) {
	path := writeYAML(t, `
app:
  app_env: prod
  log_level: warn
server:
  addr: ":9090"
  cors_allowed_origins:
    - https://admin.example.com
crud:
  default_page_size: 50
  search_debounce: 150ms
realtime:
  kind: redis
  debounce_window: 2s
  redis:
    addr: redis:6379
    db: 3
    prefix: crudkit
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", c.App.Env)
	assert.Equal(t, "warn", c.App.LogLevel)
	assert.Equal(t, ":9090", c.Server.Addr)
	assert.Equal(t, []string{"https://admin.example.com"}, c.Server.CORSAllowedOrigins)
	assert.Equal(t, 50, c.CRUD.DefaultPageSize)
	assert.Equal(t, 200, c.CRUD.MaxPageSize, "missing keys keep defaults")
	assert.Equal(t, 150*time.Millisecond, c.SearchDebounceWindow())
	assert.Equal(t, "redis", c.Realtime.Kind)
	assert.Equal(t, 2*time.Second, c.RealtimeWindow())
	assert.Equal(t, "redis:6379", c.Realtime.Redis.Addr)
	assert.Equal(t, 3, c.Realtime.Redis.DB)
	assert.Equal(t, "crudkit", c.Realtime.Redis.Prefix)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeYAML(t, "server: [what")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := writeYAML(t, `
server:
  addr: ":9090"
crud:
  default_page_size: 50
`)
	t.Setenv("APP_ENV", "Staging")
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("CRUD_DEFAULT_PAGE_SIZE", "25")
	t.Setenv("REALTIME_KIND", "REDIS")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", c.App.Env, "env value is lowercased")
	assert.Equal(t, ":7070", c.Server.Addr, "env wins over YAML")
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, c.Server.CORSAllowedOrigins)
	assert.Equal(t, 25, c.CRUD.DefaultPageSize)
	assert.Equal(t, "redis", c.Realtime.Kind)
	assert.Equal(t, "redis:6379", c.Realtime.Redis.Addr)
	assert.Equal(t, 2, c.Realtime.Redis.DB)
}

func TestEnvOverrides_InvalidIntIgnored(t *testing.T) {
	t.Setenv("CRUD_DEFAULT_PAGE_SIZE", "a lot")
	c := Default()
	assert.Equal(t, 20, c.CRUD.DefaultPageSize)
}

func TestWindows_InvalidDurationIsZero(t *testing.T) {
	c := Default()
	c.CRUD.SearchDebounce = "pronto"
	c.Realtime.DebounceWindow = ""
	assert.Equal(t, time.Duration(0), c.SearchDebounceWindow())
	assert.Equal(t, time.Duration(0), c.RealtimeWindow())
}
