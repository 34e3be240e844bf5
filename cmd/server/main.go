package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"booking-assistant/internal/di"
	"booking-assistant/internal/infrastructure/config"
	"booking-assistant/internal/infrastructure/env"
	"booking-assistant/internal/transport/httpapi"
)

func main() {
	envService := env.NewService()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg, di.Options{
		OpenRouterAPIKey: envService.Get("OPENROUTER_API_KEY"),
	})
	if err != nil {
		log.Fatalf("Initialization error: %v", err)
	}
	defer container.Close()

	handler := httpapi.NewHandler(container.Processor, container.Sessions, container.Logger)
	srv := httpapi.NewServer(cfg.Server.Address, handler)

	go func() {
		container.Logger.Info("HTTP server listening", "address", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			container.Logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	container.Logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Shutdown failed", "error", err)
	}
}
