package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/telhawk-systems/resend-sink/internal/config"
	"github.com/telhawk-systems/resend-sink/internal/handlers"
	"github.com/telhawk-systems/resend-sink/internal/logging"
	"github.com/telhawk-systems/resend-sink/internal/mirror"
	"github.com/telhawk-systems/resend-sink/internal/server"
	"github.com/telhawk-systems/resend-sink/internal/service"
	"github.com/telhawk-systems/resend-sink/internal/store"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("sink"))
	logging.SetDefault(logger)

	slog.Info("Starting webhook sink",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("connectors", strings.Join(cfg.Connectors.Enabled, ",")),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}

	if cfg.Webhook.Secret == "" {
		log.Println("WARNING: webhook secret not configured - all deliveries will be rejected")
	}

	// Build connectors for the enabled backends. Connections are dialed
	// lazily, so a misconfigured backend fails its first delivery rather
	// than startup.
	connectors, err := store.BuildEnabled(cfg.Connectors)
	if err != nil {
		log.Fatalf("Failed to build connectors: %v", err)
	}
	if len(connectors) == 0 {
		log.Fatal("No connectors enabled")
	}
	defer func() {
		for name, conn := range connectors {
			if err := conn.Close(); err != nil {
				log.Printf("Failed to close connector %s: %v", name, err)
			}
		}
	}()

	// Initialize the mirror publisher
	publisher, err := mirror.New(cfg.Mirror)
	if err != nil {
		log.Fatalf("Failed to initialize mirror: %v", err)
	}
	if publisher != nil {
		log.Printf("Mirror enabled (backend: %s)", cfg.Mirror.Backend)
		defer publisher.Close()
	} else {
		log.Println("Mirror disabled")
	}

	// Initialize the ingestion pipeline
	ingestor, err := service.NewIngestor(cfg.Webhook, publisher, logger)
	if err != nil {
		log.Fatalf("Failed to initialize ingestor: %v", err)
	}

	// Initialize HTTP handlers
	handler := handlers.NewWebhookHandler(ingestor, connectors, cfg.Webhook.MaxBodyBytes)
	router := server.NewRouter(handler)

	for _, name := range handler.Backends() {
		log.Printf("Mounted /webhooks/%s", name)
	}

	// Create server with config values
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Webhook sink listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
