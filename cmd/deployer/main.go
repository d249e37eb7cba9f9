package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/altuslabsxyz/deployer/cmd/deployer/commands"
)

func main() {
	os.Exit(run())
}

// run executes the CLI and returns the process exit code. Keeping os.Exit out
// of this function lets deferred cleanup finish first.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return commands.Execute(ctx, commands.NewRootCmd())
}
