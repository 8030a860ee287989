package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"ymm/catalog/internal/config"
	"ymm/catalog/internal/container"
	"ymm/catalog/internal/logging"
)

func main() {
	log.Info("Starting YMM catalog service...")

	// Load configuration using viper
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Setup(cfg.Log); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	log.Info("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize container with all dependencies
	app, err := container.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		log.Errorf("Application exited with error: %v", err)
		return
	}

	log.Info("Application finished successfully")
}
