package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"wallet/internal/app"
	"wallet/internal/cli"
	"wallet/internal/ledger"
	"wallet/internal/log"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cli.LoadEnvFile()

	logger, err := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logger.Warn("Unknown log level, using info", log.FieldError, err)
	}

	cfg, err := cli.LoadAndValidateConfig(logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = log.NewContext(ctx, logger)

	inject := app.BootstrapServices(ctx, cfg, logger)
	err = app.RunWithStore(inject, func(store *ledger.Store) error {
		runner := cli.NewRunner(store, cli.WithTopN(cfg.TopCategories))
		return runner.Run(ctx, args)
	})

	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, cli.ErrUsage):
		fmt.Fprintln(os.Stderr, err)
		return 2
	default:
		fmt.Fprintln(os.Stderr, "wallet:", err)
		return 1
	}
}
