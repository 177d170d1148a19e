package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"tawny-metrics/internal/app"
	"tawny-metrics/internal/assets"
	"tawny-metrics/internal/loader"
	"tawny-metrics/internal/prefs"
	"tawny-metrics/internal/site"
)

func main() {
	cfg, err := app.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	catalog, err := app.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dataset catalog")
	}

	store, err := openPrefsStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.PrefsBackend).Msg("Failed to open preference store")
	}
	preferences := prefs.New(store)
	defer preferences.Close()
	log.Info().Str("backend", cfg.PrefsBackend).Msg("Preference store ready")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := loader.NewCache(cfg.CacheTTL)
	var source loader.Source
	dataDir := ""
	if cfg.DataURL != "" {
		source = loader.NewHTTPSource(cfg.DataURL, nil)
		log.Info().Str("url", cfg.DataURL).Msg("Loading datasets over HTTP")
	} else {
		source = loader.NewDirSource(os.DirFS(cfg.DataDir))
		dataDir = cfg.DataDir
		watcher, err := loader.NewWatcher(cfg.DataDir, cache)
		if err != nil {
			log.Warn().Err(err).Str("dir", cfg.DataDir).Msg("Data directory not watched; relying on cache TTL")
		} else {
			watcher.Start(ctx)
			defer watcher.Stop()
		}
		log.Info().Str("dir", cfg.DataDir).Msg("Loading datasets from disk")
	}

	handler := site.NewHandler(
		loader.New(source),
		cache,
		catalog,
		preferences,
		assets.NewResolver(os.DirFS(cfg.AssetsDir)),
	)
	router := site.NewRouter(handler, site.RouterOptions{
		CORSOrigins: cfg.CORSOrigins,
		AssetsDir:   cfg.AssetsDir,
		DataDir:     dataDir,
		Timeout:     30 * time.Second,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("env", cfg.Env).Msg("Tawny Park Metrics is running")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server error")
		}

	case sig := <-shutdown:
		log.Warn().Str("signal", sig.String()).Msg("Shutting down")

		// Give outstanding requests a deadline for completion
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Graceful shutdown failed")
			if err := srv.Close(); err != nil {
				log.Error().Err(err).Msg("Could not stop server")
			}
		}
	}

	log.Info().Msg("Shutdown complete")
}
