package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fintrack/internal/cli"
	"fintrack/internal/log"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))

	app := &cli.App{Out: os.Stdout, Err: os.Stderr}
	args := os.Args[1:]
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		app.PrintUsage()
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		logger.Error("Configuration validation failed", log.FieldOperation, log.OpValidate, log.FieldError, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = log.NewContext(ctx, logger)

	tracker, cleanup, err := cli.OpenTracker(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open tracker", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		return 1
	}
	defer func() {
		if cleanup == nil {
			return
		}
		if err := cleanup(); err != nil {
			logger.Warn("Failed to close backend", log.FieldError, err)
		}
	}()

	app.Tracker = tracker
	err = app.Run(ctx, args)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case cli.IsUserError(err):
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 2
	default:
		logger.Error("Command failed", log.FieldError, err)
		return 1
	}
}
