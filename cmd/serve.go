package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/adventurebag/shop/internal/catalog"
	"github.com/adventurebag/shop/internal/coach"
	"github.com/adventurebag/shop/internal/config"
	"github.com/adventurebag/shop/internal/experiment"
	"github.com/adventurebag/shop/internal/handlers"
	"github.com/adventurebag/shop/internal/images"
	"github.com/adventurebag/shop/internal/metadata"
	"github.com/adventurebag/shop/internal/metrics"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog web service",
		Long: `Starts the AdventureBag HTTP service.

The catalog is rebuilt on every request from the metadata file and the
image folder. When CATALOG_UPSTREAM_URL (or --upstream) is set the catalog
is read from that instance instead, falling back to the metadata-only
catalog whenever it fails or comes back empty.`,
		Example: `  # Start server on default port 8888
  adventurebag serve

  # Reload the metadata file when it changes
  adventurebag serve --watch --metadata data/backpacks.yaml

  # Start server on custom port
  adventurebag serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringP("port", "p", config.DefaultPort, "Port to listen on")
	cmd.Flags().Bool("watch", false, "Reload the metadata file when it changes")
	cmd.Flags().String("upstream", "", "Base URL of a primary catalog service")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	logger := slog.Default()
	m := metrics.New()

	provider, err := metadata.NewFileProvider(cfg.MetadataPath, logger)
	if err != nil {
		return fmt.Errorf("failed to load metadata: %w", err)
	}
	if cfg.WatchMetadata {
		if err := provider.Watch(ctx); err != nil {
			return err
		}
		defer provider.Close()
	}

	dir := images.NewDir(cfg.ImagesDir, cfg.ImageURLPrefix)
	opts := catalog.Options{ImageURLPrefix: dir.URLPrefix, Logger: logger}

	fallback := &catalog.FallbackSource{Metadata: provider, Options: opts, Observer: m}
	var primary catalog.Source = &catalog.LocalSource{Metadata: provider, Images: dir, Options: opts, Observer: m}
	if cfg.UpstreamURL != "" {
		client := catalog.NewClient(cfg.UpstreamURL)
		client.Observer = m
		primary = catalog.WithFallback(client, fallback, logger)
		logger.Info("Serving upstream catalog", "upstream", client.BaseURL)
	}

	coachClient := coach.NewClient(cfg.CoachBaseURL)
	if !coachClient.Configured() {
		logger.Warn("COACH_BASE_URL is not set; page config endpoints will report an error")
	}

	handler := handlers.New(handlers.Deps{
		Catalog:     primary,
		Fallback:    fallback,
		Images:      dir,
		Coach:       coach.NewService(coachClient, m, logger),
		Experiments: experiment.NewStore(),
		Options:     opts,
		Logger:      logger,
	})

	addr := cfg.Addr()
	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Routes(m.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("AdventureBag catalog available",
			"addr", addr,
			"url", "http://localhost"+addr,
			"metadata", cfg.MetadataPath,
			"images", cfg.ImagesDir)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for context cancellation (Ctrl+C) or server error
	select {
	case <-ctx.Done():
		slog.Info("Shutting down server...")
		// Give server 5 seconds to shut down gracefully
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "err", err)
			return err
		}
		slog.Info("Server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}
