package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/geo-analysis/pkg/di"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := di.InitializeApp()
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	if err := app.Run(ctx); err != nil {
		app.Log.Error("server stopped", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
	app.Log.Info("server stopped")
}
