// Relay server - bridges live voice between languages over WebSocket
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vaanihq/platform/internal/config"
	"github.com/vaanihq/platform/internal/pipeline"
	"github.com/vaanihq/platform/internal/relay"
	"github.com/vaanihq/platform/internal/speech"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Dial the speech, translation and synthesis services
	clients, err := speech.NewClients(ctx, cfg.SampleRate)
	if err != nil {
		slog.Error("failed to create speech clients", "error", err)
		os.Exit(1)
	}
	defer func() { _ = clients.Close() }()

	decoder := speech.NewFFmpegDecoder(cfg.FFmpegPath, cfg.SampleRate)

	// Create pipeline and relay server
	orch := pipeline.New(decoder, clients.Transcriber, clients.Translator, clients.Synthesizer, cfg.StageTimeout)
	srv := relay.New(cfg, orch, clients.Translator)

	httpServer := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     srv.Handler(),
		ReadTimeout: 0, // websocket sessions are long-lived
		IdleTimeout: 2 * time.Minute,
	}

	go func() {
		slog.Info("relay server starting", "http", cfg.HTTPAddr, "room_capacity", cfg.RoomCapacity)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("http server error", "error", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
