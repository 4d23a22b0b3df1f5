package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/V4T54L/journalview/internal/adapter/journal"
	"github.com/V4T54L/journalview/internal/adapter/systemd"
	"github.com/V4T54L/journalview/internal/cmd/logq"
	"github.com/V4T54L/journalview/internal/pkg/logger"
)

func main() {
	// Logs go to stderr so stdout stays clean for table and export output.
	log := logger.NewText(os.Stderr, os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := logq.NewRoot(logq.Deps{
		Open:   journal.Open,
		Units:  systemd.NewUnitLister(log),
		Boots:  systemd.NewBootLister(nil, log),
		Logger: log,
	})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "logq:", err)
		stop()
		os.Exit(1)
	}
}
