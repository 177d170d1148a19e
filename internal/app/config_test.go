package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"ENV", "LOGLEVEL", "PORT", "DATA_DIR", "DATA_URL", "PREFS_BACKEND", "SQLITE_PATH", "RAILWAY_VOLUME_MOUNT_PATH", "CACHE_TTL", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "sqlite", cfg.PrefsBackend)
	assert.Equal(t, "./tawny_metrics.db", cfg.SQLitePath)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("RAILWAY_VOLUME_MOUNT_PATH", "/mnt/vol")
	t.Setenv("PREFS_BACKEND", "Redis")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "redis", cfg.PrefsBackend)
	assert.Equal(t, filepath.Join("/mnt/vol", "tawny_metrics.db"), cfg.SQLitePath)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "CACHE_TTL")
	})
	t.Run("backend", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "")
		t.Setenv("PREFS_BACKEND", "postgres")
		_, err := Load()
		assert.ErrorContains(t, err, "PREFS_BACKEND")
	})
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		env, raw string
		want     zerolog.Level
		known    bool
	}{
		{"development", "", zerolog.InfoLevel, true},
		{"production", "", zerolog.WarnLevel, true},
		{"development", "Warning", zerolog.WarnLevel, true},
		{"production", "debug", zerolog.DebugLevel, true},
		{"development", "chatty", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		got, known := logLevel(tt.env, tt.raw)
		assert.Equal(t, tt.want, got, "%s/%q", tt.env, tt.raw)
		assert.Equal(t, tt.known, known, "%s/%q", tt.env, tt.raw)
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, 2026, c.Board.DefaultYear)
	assert.Equal(t, 2025, c.History.DefaultYear)
	assert.True(t, c.History.HasYear(2016))
	assert.False(t, c.Consensus.Yearly())
	assert.Equal(t, 58, c.Limits().Limit(2024))
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
board:
  path: "board/{year}.csv"
  years: [2025, 2026, 2025]
history:
  path: "history/{year}.csv"
  years: [2023, 2024]
  default_year: 2023
consensus:
  path: "consensus.csv"
pick_limits:
  2019: 59
`), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []int{2026, 2025}, c.Board.Years)
	assert.Equal(t, 2026, c.Board.DefaultYear)
	assert.Equal(t, 2023, c.History.DefaultYear)
	assert.Equal(t, 59, c.Limits().Limit(2019))
}

func TestLoadCatalogValidation(t *testing.T) {
	tests := map[string]string{
		"missing path":      "board: {years: [2025]}\nhistory: {path: h.csv}\nconsensus: {path: c.csv}\n",
		"years without tpl": "board: {path: b.csv, years: [2025]}\nhistory: {path: h.csv}\nconsensus: {path: c.csv}\n",
		"bad default":       "board: {path: \"b/{year}.csv\", years: [2025], default_year: 2020}\nhistory: {path: h.csv}\nconsensus: {path: c.csv}\n",
		"bad limit":         "board: {path: b.csv}\nhistory: {path: h.csv}\nconsensus: {path: c.csv}\npick_limits: {2024: 99}\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := LoadCatalog(path)
			assert.ErrorContains(t, err, "invalid catalog")
		})
	}

	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "reading catalog file")
}
