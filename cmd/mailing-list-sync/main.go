// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// The mailing-list-sync command keeps a subscriber list in step with the
// membership of a source group.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// Version is set during build with -ldflags
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		slog.Error("mailing-list-sync failed", "error", err)
		os.Exit(getExitCode(err))
	}
}
