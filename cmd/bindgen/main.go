// Command bindgen generates typed TypeScript bindings for invocable
// commands, events and constants.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/bindgen/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Subcommands report their own errors; cobra prints the rest.
	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
