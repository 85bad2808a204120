// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Command pipeline runs the MovieRec training pipeline without the server.
//
//	pipeline                                  # all four stages
//	pipeline --stages preparation,training    # a subset, in pipeline order
//	pipeline stages                           # list stage IDs
//
// Configuration is read the same way as the server: defaults, config file,
// then environment variables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(version, nil).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pipeline: %v\n", err)
		os.Exit(1)
	}
}
