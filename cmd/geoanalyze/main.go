package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/geo-analysis/pkg/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
