package main

import (
	"context"
	"log"
	"strings"
	"time"

	"booking-assistant/internal/di"
	"booking-assistant/internal/domain/entity"
	"booking-assistant/internal/infrastructure/config"
	"booking-assistant/internal/infrastructure/console"
	"booking-assistant/internal/infrastructure/env"
)

const turnTimeout = 5 * time.Minute

func main() {
	envService := env.NewService()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx := context.Background()

	container, err := di.NewContainer(ctx, cfg, di.Options{
		OpenRouterAPIKey: envService.Get("OPENROUTER_API_KEY"),
	})
	if err != nil {
		log.Fatalf("Initialization error: %v", err)
	}
	defer container.Close()

	ui := console.New()
	ui.ShowBanner()

	state := entity.NewConversationState()

	for {
		line, err := ui.ReadLine()
		if err != nil {
			container.Logger.Error("Input read failed", "error", err)
			return
		}

		switch strings.ToLower(line) {
		case "exit", "quit":
			return
		case "":
			continue
		}

		reset := strings.EqualFold(line, "restart")

		turnCtx, cancel := context.WithTimeout(ctx, turnTimeout)
		newState, reply, err := container.Processor.ProcessMessage(turnCtx, state, line, reset)
		cancel()
		if err != nil {
			// Invariant violations should not happen with locally-owned
			// state; start the session over.
			ui.ShowError(err)
			state = entity.NewConversationState()
			continue
		}

		state = newState
		ui.ShowReply(state.Stage, reply)
	}
}
