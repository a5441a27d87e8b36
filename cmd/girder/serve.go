package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carvallo/girder/internal/airtable"
	"github.com/carvallo/girder/internal/config"
	"github.com/carvallo/girder/internal/dashboard"
	"github.com/carvallo/girder/internal/events"
	"github.com/carvallo/girder/internal/schema"
	"github.com/carvallo/girder/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the girder HTTP server",
	GroupID: "system",
	// Override PersistentPreRunE so we don't create a client connection.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		// Load configuration. Missing Airtable credentials refuse to start:
		// no request can succeed without them.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Resolve the table schema.
		tableSchema := schema.Default()
		if cfg.SchemaPath != "" {
			tableSchema, err = schema.LoadFile(cfg.SchemaPath)
			if err != nil {
				return err
			}
			logger.Info("schema override loaded", "path", cfg.SchemaPath)
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (GIRDER_NATS_URL not set)")
		}
		defer publisher.Close()

		// Wire the service and HTTP server.
		backend := airtable.NewClient(cfg.AirtableURL, cfg.AirtableBase, cfg.AirtableToken)
		svc := dashboard.NewService(backend, tableSchema)
		gw := server.New(svc, publisher)

		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: gw.NewHTTPHandler(cfg.AuthToken, cfg.CORSOrigin),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Wait for shutdown signal.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	},
}
