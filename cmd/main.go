package main

import (
	"context"
	"os"

	"github.com/SupeeerMario/LowKey/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "lowkey",
		Usage:    "Relay between browser clients and the Spotify Web API",
		Version:  "0.2.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
