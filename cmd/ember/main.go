// Package main provides the entry point for the ember CLI.
package main

import (
	"context"
	"os"

	"github.com/emberflow/ember/internal/cli"
	"github.com/emberflow/ember/internal/signal"
)

// Build information set via ldflags.
var (
	version = "" //nolint:gochecknoglobals // set at build time
	commit  = "" //nolint:gochecknoglobals // set at build time
	date    = "" //nolint:gochecknoglobals // set at build time
)

func main() {
	h := signal.NewHandler(context.Background())
	defer h.Stop()

	err := cli.Execute(h.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if err != nil {
		os.Exit(cli.ExitCodeForError(err))
	}
}
