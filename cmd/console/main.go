package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/leadops/lead-console/internal/bootstrap"
	"github.com/leadops/lead-console/internal/config"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := bootstrap.New(cfg)
	slog.SetDefault(app.Logger)

	go app.Sessions.Run(ctx)

	// WriteTimeout stays off: lookup and transcription hold the response open
	// for as long as the upstream takes.
	server := &http.Server{
		Addr:        ":" + cfg.APIPort,
		Handler:     app.Handler,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		app.Logger.Info("console listening", slog.String("port", cfg.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("shutdown failed", slog.String("error", err.Error()))
	}
}
