package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carparts/internal/app/bootstrap"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring.
// 3) Relay the order and catalog outboxes to the event bus until signalled.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildWorker(ctx)
	if err != nil {
		log.Fatalf("bootstrap worker failed: %v", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		app.Close(closeCtx)
	}()

	if err := app.Run(ctx); err != nil {
		log.Printf("carparts worker stopped with error: %v", err)
	}
}
