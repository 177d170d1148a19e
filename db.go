package main

import (
	"context"
	"time"

	"tawny-metrics/internal/app"
	"tawny-metrics/internal/prefs"
)

// openPrefsStore opens the column preference backend named by PREFS_BACKEND.
func openPrefsStore(cfg app.Config) (prefs.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch cfg.PrefsBackend {
	case "redis":
		store, err := prefs.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "memory":
		return prefs.NewMemoryStore(), nil
	default:
		// Railway volumes are picked up through the SQLITE_PATH default.
		store, err := prefs.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
