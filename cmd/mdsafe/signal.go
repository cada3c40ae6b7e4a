package main

import (
	"context"
	"os/signal"
)

// notifyContext derives a context canceled by the first shutdown signal.
// Typesetters run in their own process group and never see the terminal's
// signals, so this cancellation is what stops them.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
