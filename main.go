package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"comparador/internal/config"
	"comparador/internal/dashboard"
	"comparador/internal/logger"
	"comparador/internal/refresh"
	"comparador/internal/storage"
)

// buildServer wires storage and the dashboard from cfg
func buildServer(ctx context.Context, cfg *config.Config) (*dashboard.Server, error) {
	store, err := storage.NewStorageClient(ctx, storage.DeploymentMode(cfg.StorageMode), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return dashboard.NewServer(cfg, dashboard.NewFetcher(cfg), store), nil
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("failed to load configuration", err)
	}
	logger.Configure(logger.Global(), cfg.LogLevel, cfg.LogFormat)
	log := logger.Component("main")

	log.Info("starting comparador", logger.Fields{
		"port":         cfg.Port,
		"environment":  cfg.Environment,
		"version":      config.GetVersion(),
		"storage_mode": cfg.StorageMode,
		"dados_url":    cfg.DadosBaseURL,
		"mockup_mode":  cfg.MockupMode,
	})

	server, err := buildServer(ctx, cfg)
	if err != nil {
		log.Fatal("failed to create server", err)
	}
	defer server.Close()

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	// page-load refresh; a failure is already on the overlay
	go func() {
		if err := server.Start(runCtx); err != nil && !errors.Is(err, refresh.ErrStaleResponse) {
			log.Warn("initial refresh failed", logger.Fields{"error": err.Error()})
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", logger.Fields{"addr": httpServer.Addr})
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("HTTP server error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down server")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", err)
	}

	log.Info("server stopped")
}
