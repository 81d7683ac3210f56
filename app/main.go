package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/ical-comb/app/api"
	"github.com/lysyi3m/ical-comb/app/cache"
	"github.com/lysyi3m/ical-comb/app/calendar"
	"github.com/lysyi3m/ical-comb/app/cfg"
	"github.com/lysyi3m/ical-comb/app/config"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting iCal Comb server", "version", appCfg.Version)

	// Load calendar feed configuration
	loader := config.NewLoader(appCfg.FeedsFile)
	calCfg, err := loader.Load()
	if err != nil {
		slog.Error("Failed to load feed configuration", "file", appCfg.FeedsFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Feed configuration loaded",
		"file", appCfg.FeedsFile,
		"feeds", len(calCfg.Feeds),
		"timezone", calCfg.Location().String(),
		"cache_duration", time.Duration(calCfg.Settings.CacheDuration)*time.Minute)

	// Initialize the feed cache backend
	store, err := cache.NewStore(appCfg.CacheBackend, appCfg.RedisAddr, appCfg.SQLitePath)
	if err != nil {
		slog.Error("Failed to initialize cache", "backend", appCfg.CacheBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Cache initialized", "backend", appCfg.CacheBackend)

	// Initialize core components
	service := calendar.NewService(calCfg, store, &http.Client{}, appCfg.UserAgent)

	// Initialize HTTP server
	handler := api.NewHandler(service, calCfg)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start HTTP server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	// Graceful shutdown
	slog.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}
