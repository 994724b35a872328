package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"winnow/cmd"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cmd.Execute(ctx)
}
