package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(t *testing.T) *Config {
	t.Helper()
	v, err := NewViper()
	require.NoError(t, err)
	cfg, err := Load(v, "")
	require.NoError(t, err)
	return cfg
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://localhost/talent")
	t.Setenv("OPENROUTER_API_KEY", "")

	cfg := newTestViper(t)

	assert.Equal(t, "postgres://localhost/talent", cfg.DatabaseURL)
	assert.Equal(t, DefaultSQLAsset, cfg.SQLAsset)
	assert.Equal(t, DefaultTopN, cfg.TopN)
	assert.Equal(t, DefaultHistogramBins, cfg.HistogramBins)
	assert.Equal(t, DefaultProvider, cfg.LLM.Provider)
	assert.Equal(t, DefaultLLMTimeout, cfg.LLM.Timeout)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.False(t, cfg.Server.AuthEnabled())
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_URL", "")

	v, err := NewViper()
	require.NoError(t, err)
	_, err = Load(v, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DatabaseURL")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://db/talent")
	t.Setenv("TALENT_MATCH_SQL", "/srv/match.sql")
	t.Setenv("TALENT_MATCH_TOP_N", "5")
	t.Setenv("LLM_TIMEOUT", "30s")
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("DASHBOARD_PASSWORD_HASH", "$2a$10$abc")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")

	cfg := newTestViper(t)

	assert.Equal(t, "/srv/match.sql", cfg.SQLAsset)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "or-key", cfg.LLM.APIKey)
	assert.True(t, cfg.Server.AuthEnabled())
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.RateLimit.Whitelist)
}

func TestLoad_GeminiKey(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://db/talent")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("GEMINI_API_KEY", "gm-key")

	cfg := newTestViper(t)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gm-key", cfg.LLM.APIKey)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	content := `
database_url: postgres://file/talent
top_n: 3
histogram_bins: 20
llm:
  provider: openrouter
  model: anthropic/claude-3.5-sonnet
server:
  port: 9090
log:
  json: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName+".yaml"), []byte(content), 0o644))
	t.Setenv("DATABASE_URL", "")

	cfg := newTestViper(t)

	assert.Equal(t, "postgres://file/talent", cfg.DatabaseURL)
	assert.Equal(t, 3, cfg.TopN)
	assert.Equal(t, 20, cfg.HistogramBins)
	assert.Equal(t, "anthropic/claude-3.5-sonnet", cfg.LLM.Model)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Log.JSON)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	v, err := NewViper()
	require.NoError(t, err)

	_, err = Load(v, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate_InvalidProvider(t *testing.T) {
	cfg := &Config{
		DatabaseURL:   "postgres://x",
		SQLAsset:      "a.sql",
		TopN:          10,
		HistogramBins: 15,
		LLM:           LLMConfig{Provider: "openai"},
		Server:        ServerConfig{Port: 8080, BcryptCost: 12},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Provider")

	cfg.LLM.Provider = "openrouter"
	assert.NoError(t, cfg.Validate())
}
