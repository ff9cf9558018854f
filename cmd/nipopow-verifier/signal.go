// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

// interruptSignals defines the signals that stop a serving verifier.
var interruptSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// withInterrupt returns a context cancelled on the first interrupt signal.
// Later signals are only logged so the user knows shutdown is in progress.
func withInterrupt(parent context.Context, log zerolog.Logger) context.Context {
	ctx, cancel := context.WithCancel(parent)
	interruptChannel := make(chan os.Signal, 1)
	signal.Notify(interruptChannel, interruptSignals...)

	go func() {
		select {
		case sig := <-interruptChannel:
			log.Info().Str("signal", sig.String()).Msg("shutting down")
			cancel()
		case <-ctx.Done():
			signal.Stop(interruptChannel)
			return
		}

		for sig := range interruptChannel {
			log.Info().Str("signal", sig.String()).Msg("already shutting down")
		}
	}()

	return ctx
}
