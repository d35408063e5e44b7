package main

import (
	"context"
	"log"
	"os"
	"syscall"
	"time"

	"github.com/openhire/jobdesk/internal/app"
	"github.com/openhire/jobdesk/internal/config"
	"github.com/openhire/jobdesk/pkg/logging"
	"github.com/openhire/jobdesk/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build application", "err", err)
		os.Exit(1)
	}

	if err := a.StartConsumer(ctx); err != nil {
		logger.Warn("broadcast consumer not started", "err", err)
	}

	go shutdown.Graceful(
		[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
		10*time.Second,
		logger,
		a.Server,
		a,
	)

	if err := a.Server.Run(); err != nil {
		logger.Error("http server exited with error", "err", err)
	} else {
		logger.Info("http server stopped")
	}
}
