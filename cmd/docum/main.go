package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"docum/internal/app"
	"docum/internal/cli"
	"docum/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}

	// Logs go to stderr so command output on stdout stays machine-readable
	logger, closeLog, err := config.NewLogger(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup logging: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}
	slog.SetDefault(logger)

	open := func(ctx context.Context) (*app.App, error) {
		logger.Debug("opening store",
			"environment", cfg.Environment,
			"driver", cfg.StoreDriver,
			"table_prefix", cfg.TablePrefix,
		)
		return app.New(ctx, cfg, logger)
	}

	err = cli.NewRootCommand(open).Execute()
	_ = closeLog()
	if err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
