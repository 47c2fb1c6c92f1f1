package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"fotoblog/internal/config"
	"fotoblog/internal/lib/logger/sl"
	"fotoblog/internal/repository"
)

var (
	flags      = flag.NewFlagSet("migrator", flag.ExitOnError)
	dsn        = flags.String("dsn", "", "database DSN (postgres://... or sqlite://path), overrides config")
	configPath = flags.String("config", "", "path to config file")
)

const usage = `Usage: migrator [-dsn DSN] [-config PATH] COMMAND

Commands:
  up       apply all pending migrations
  down     roll back the last migration
  status   print migration status
  reset    roll back all migrations
  version  print current schema version`

func main() {
	_ = flags.Parse(os.Args[1:])
	args := flags.Args()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	target := *dsn
	if target == "" {
		var (
			cfg *config.Config
			err error
		)
		if *configPath != "" {
			cfg, err = config.LoadPath(*configPath)
		} else {
			cfg, err = config.LoadPath(os.Getenv("CONFIG_PATH"))
		}
		if err != nil {
			log.Error("failed to load config", sl.Err(err))
			os.Exit(1)
		}
		target = cfg.DSN
	}

	command := args[0]

	if err := repository.Migrate(context.Background(), log, target, command); err != nil {
		log.Error("migration failed", slog.String("command", command), sl.Err(err))
		os.Exit(1)
	}

	log.Info("migration finished", slog.String("command", command))
}
