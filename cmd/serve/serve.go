// Package serve contains the HTTP server command.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"financetrack/cmd/root"
	"financetrack/internal/api"
	"financetrack/internal/categorizer"
	"financetrack/internal/ingest"
	"financetrack/internal/insights"
	"financetrack/internal/store"
)

// Cmd is the serve command.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func run(ctx context.Context) error {
	cfg := root.Cfg
	log := root.Log

	st, err := store.New(ctx, cfg.Database.URL, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer st.Close()

	aiTimeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second

	var aiClient categorizer.AIClient
	var summarizer insights.Summarizer
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		gemini, err := categorizer.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model, aiTimeout, log)
		if err != nil {
			return fmt.Errorf("failed to initialize AI client: %w", err)
		}
		defer gemini.Close()
		aiClient = gemini

		geminiSummarizer, err := insights.NewGeminiSummarizer(ctx, cfg.AI.APIKey, cfg.AI.Model, aiTimeout, log)
		if err != nil {
			return fmt.Errorf("failed to initialize AI summarizer: %w", err)
		}
		defer geminiSummarizer.Close()
		summarizer = geminiSummarizer
	} else {
		log.Warn("AI categorization disabled (no API key or ai.enabled=false)")
	}

	server := api.NewServer(api.Options{
		Store:         st,
		Ingestor:      ingest.NewIngestor(st, log),
		Categorizer:   categorizer.New(st, aiClient, log),
		Insights:      insights.New(st, summarizer, log),
		SessionTTL:    time.Duration(cfg.Auth.SessionTTLMinutes) * time.Minute,
		MaxUploadSize: int64(cfg.Upload.MaxFileSizeMB) << 20,
		Logger:        log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("HTTP server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}
