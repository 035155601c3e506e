package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stockfinder/internal/app"
	"stockfinder/internal/config"
	"stockfinder/internal/logx"
)

func main() {
	cfg, err := config.Load()
	must(err)
	logx.Setup(cfg.LogLevel, cfg.LogFormat)

	a, err := app.New(cfg)
	must(err)
	defer a.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	must(a.Server().Run(ctx, cfg.HTTPAddr))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
