package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/langman/internal/config"
	"github.com/DoyleJ11/langman/internal/logging"
	"github.com/DoyleJ11/langman/internal/orchestrator"
	"github.com/DoyleJ11/langman/internal/textui"
	"github.com/DoyleJ11/langman/internal/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	logFile := flag.String("log-file", "", "write logs to this file instead of stderr")
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		return err
	}

	var logger *zap.Logger
	if *logFile != "" {
		logger, err = logging.ToFile(cfg.LogLevel, cfg.LogDev, *logFile)
	} else {
		logger, err = logging.New(cfg.LogLevel, cfg.LogDev)
	}
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := transport.NewClient(cfg.APIURL, cfg.Timeout, logger.Named("transport"))
	if err := client.Health(ctx); err != nil {
		logger.Warn("game server health check failed", zap.String("api", cfg.APIURL), zap.Error(err))
	}

	o := orchestrator.New(ctx, client, logger)
	defer o.Close()

	views := make(chan orchestrator.View, 16)
	if err := o.Watch(ctx, "terminal", views); err != nil {
		return err
	}
	ui := textui.New(os.Stdout, o, cfg.Language, logger.Named("ui"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ui.Views(gctx, views)
	})
	g.Go(func() error {
		err := ui.Commands(gctx, textui.Lines(os.Stdin))
		if errors.Is(err, textui.ErrExit) {
			err = nil
		}
		// leaving the command loop ends the run
		o.Close()
		return err
	})

	err = g.Wait()
	if errors.Is(err, textui.ErrViewsClosed) {
		return nil
	}
	return err
}
