package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yegor77/pipeline-portwatch/app/runner"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	app := runner.Initialize(ctx)

	err := app.Start(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}
