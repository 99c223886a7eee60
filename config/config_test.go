package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CMP_CONFIG", "PORT", "ENV", "CLIENT_ORIGIN", "DB_DRIVER", "DATABASE_URL", "DB_HOST",
		"JWT_SECRET", "SESSION_SECRET", "AI_PROVIDER", "AI_API_KEY", "GEMINI_API_KEY",
		"OPENAI_API_KEY", "AI_TIMEOUT_MS", "AI_MAX_RETRIES", "REDIS_ADDR", "LEADERBOARD_CACHE_TTL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, 20*time.Second, cfg.AITimeout())
	assert.Equal(t, "cmp_token", cfg.Auth.CookieName)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverridesFileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "5000"
client_origin: https://app.example.com
ai:
  provider: openai
  model: llama-3.1-8b-instant
  timeout_ms: 5000
redis:
  leaderboard_ttl: 30s
`), 0o600))

	t.Setenv("PORT", "6000")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "6000", cfg.Port)
	assert.Equal(t, "https://app.example.com", cfg.ClientOrigin)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.AI.Model)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, 5*time.Second, cfg.AITimeout())
	assert.Equal(t, 30*time.Second, cfg.Redis.LeaderboardTTL)
}

func TestClientOrigins(t *testing.T) {
	cfg := Default()
	cfg.ClientOrigin = " https://app.example.com/ ,http://localhost:3000,, "

	assert.Equal(t, []string{"https://app.example.com", "http://localhost:3000"}, cfg.ClientOrigins())

	cfg.ClientOrigin = ""
	assert.Empty(t, cfg.ClientOrigins())
}

func TestLoad_PostgresURLSelectsDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/cmp?sslmode=disable")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestValidate_ProductionNeedsSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "a-real-secret")
	t.Setenv("SESSION_SECRET", "another-real-secret")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestValidate_UnknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_PROVIDER", "clippy")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSqliteDSN_EnablesForeignKeys(t *testing.T) {
	assert.Equal(t, "craftmyprep.db?_foreign_keys=1", sqliteDSN("craftmyprep.db"))
	assert.Equal(t, "file:x?mode=memory&cache=shared&_foreign_keys=1", sqliteDSN("file:x?mode=memory&cache=shared"))
	assert.Equal(t, "file:x?_fk=0", sqliteDSN("file:x?_fk=0"))
}
