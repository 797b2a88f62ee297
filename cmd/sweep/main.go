// Command sweep closes expired lots once. It is intended to be invoked by an
// external scheduler when the in-process closer is disabled.
//
// Exit codes: 0 = sweep ran (individual lots may have failed and will be
// retried next run), 1 = the sweep could not run.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heartmarshall/lotbid-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if _, err := app.RunSweep(ctx); err != nil {
		log.Printf("sweep: %v", err)
		os.Exit(1)
	}
}
