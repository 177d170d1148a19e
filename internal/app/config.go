package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds the server settings read from the environment.
type Config struct {
	Env          string
	LogLevel     zerolog.Level
	Addr         string
	DataDir      string
	DataURL      string
	AssetsDir    string
	PrefsBackend string
	SQLitePath   string
	RedisURL     string
	CatalogFile  string
	CacheTTL     time.Duration
	CORSOrigins  []string
}

// Load reads a .env file when present, then the environment, applying defaults. The
// global logger is configured before anything is validated so errors are reported in
// the right format.
func Load() (Config, error) {
	envErr := godotenv.Load()

	cfg := Config{
		Env:          GetEnvWithDefault("ENV", "development"),
		Addr:         ":" + strings.TrimPrefix(GetEnvWithDefault("PORT", "8080"), ":"),
		DataDir:      GetEnvWithDefault("DATA_DIR", "./data"),
		DataURL:      os.Getenv("DATA_URL"),
		AssetsDir:    GetEnvWithDefault("ASSETS_DIR", "./assets"),
		PrefsBackend: strings.ToLower(GetEnvWithDefault("PREFS_BACKEND", "sqlite")),
		SQLitePath:   defaultSQLitePath(),
		RedisURL:     GetEnvWithDefault("REDIS_URL", "redis://localhost:6379"),
		CatalogFile:  os.Getenv("CATALOG_FILE"),
		CORSOrigins:  splitList(GetEnvWithDefault("CORS_ORIGINS", "http://localhost:3000")),
	}

	level, known := logLevel(cfg.Env, os.Getenv("LOGLEVEL"))
	cfg.LogLevel = level
	cfg.setupLogging()
	if !known {
		log.Warn().Str("loglevel", os.Getenv("LOGLEVEL")).Msg("Unknown LOGLEVEL, defaulting to info")
	}
	if envErr == nil {
		log.Debug().Msg("Loaded environment variables from .env file")
	}

	ttl, err := time.ParseDuration(GetEnvWithDefault("CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parsing CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	switch cfg.PrefsBackend {
	case "sqlite", "redis", "memory":
	default:
		return Config{}, fmt.Errorf("unknown PREFS_BACKEND %q", cfg.PrefsBackend)
	}
	return cfg, nil
}

// logLevel resolves LOGLEVEL. Production defaults to warn and everything else to
// info; an unrecognised name reports false.
func logLevel(env, raw string) (zerolog.Level, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "":
		if env == "production" {
			return zerolog.WarnLevel, true
		}
		return zerolog.InfoLevel, true
	case "warning":
		return zerolog.WarnLevel, true
	}
	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		return zerolog.InfoLevel, false
	}
	return level, true
}

// setupLogging points the global logger at stderr: JSON with unix timestamps in
// production, the console writer otherwise.
func (c Config) setupLogging() {
	if c.Env == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	zerolog.SetGlobalLevel(c.LogLevel)
}

// defaultSQLitePath prefers an explicit path, then a mounted volume, then the
// working directory.
func defaultSQLitePath() string {
	if p := os.Getenv("SQLITE_PATH"); p != "" {
		return p
	}
	if mountPath := os.Getenv("RAILWAY_VOLUME_MOUNT_PATH"); mountPath != "" {
		return filepath.Join(mountPath, "tawny_metrics.db")
	}
	return "./tawny_metrics.db"
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
