package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/isabella232/azure-intelligent-edge-patterns/internal/config"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/db"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/handler"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/repository"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/server"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/startup"
)

const usage = `usage: server <command>

commands:
  runserver  apply the schema, seed demo parts and serve HTTP
  serve      apply the schema and serve HTTP without seeding
  migrate    apply the schema and exit
`

var (
	errUsage = errors.New("unknown command")
	errHelp  = errors.New("help requested")
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	args := os.Args[1:]
	cmd, err := parseCommand(args)
	if errors.Is(err, errHelp) {
		fmt.Fprint(os.Stdout, usage)
		return
	}
	if err != nil {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cmd, cfg, logger); err != nil {
		logger.Error("server error", "command", cmd, "err", err)
		stop()
		os.Exit(1)
	}
}

func parseCommand(args []string) (string, error) {
	if len(args) == 0 {
		return "", errUsage
	}
	switch args[0] {
	case "runserver", "serve", "migrate":
		return args[0], nil
	case "-h", "--help", "help":
		return "", errHelp
	}
	return "", errUsage
}

// readyArgs is what the startup hooks see as launch arguments. Only the parsed command
// counts, so trailing arguments cannot switch a plain serve into a seeding run.
func readyArgs(cmd string) []string {
	return []string{cmd}
}

func run(ctx context.Context, cmd string, cfg config.Config, logger *slog.Logger) error {
	pg, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info("schema ready")
	if cmd == "migrate" {
		return nil
	}

	// repositories
	partRepo := repository.PartRepository{DB: pg}

	// app startup hooks
	partsApp := startup.PartsApp{Parts: partRepo, Logger: logger, CreateDemo: cfg.CreateDemoParts}
	if err := partsApp.Ready(ctx, readyArgs(cmd)); err != nil {
		return fmt.Errorf("parts app startup: %w", err)
	}

	// handlers
	healthHandler := handler.HealthHandler{DB: pg}
	partHandler := handler.PartHandler{Repo: partRepo}
	docsHandler := handler.DocsHandler{OpenAPIPath: cfg.OpenAPIPath}

	router := server.NewRouter(cfg, logger, healthHandler, partHandler, docsHandler)

	return server.Start(ctx, cfg, router, logger)
}
