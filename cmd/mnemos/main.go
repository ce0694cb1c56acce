package main

import (
	"log/slog"
	"os"

	"github.com/mnemoslabs/mnemos/internal/cli"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
