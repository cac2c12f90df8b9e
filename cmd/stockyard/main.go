// Package main provides the entry point for the stockyard CLI tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/stockyardhq/stockyard/cmd/stockyard/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, cmd.Version{Version: version, Commit: commit, Date: date}); err != nil {
		os.Exit(1)
	}
}
