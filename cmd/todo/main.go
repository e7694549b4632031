package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/idilsaglam/tododash/internal/cli"
	"github.com/idilsaglam/tododash/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		ui.Fail(os.Stderr, err.Error())
		stop()
		os.Exit(1)
	}
}
