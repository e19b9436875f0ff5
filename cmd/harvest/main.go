// cmd/harvest/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/harvest/internal/cli"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown; started units finish within their timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Interrupt received, finishing in-flight work...")
		cancel()
	}()

	if err := cli.Execute(ctx); err != nil {
		log.Error().Err(err).Msg("Harvest failed")
		cancel()
		os.Exit(1)
	}
}
