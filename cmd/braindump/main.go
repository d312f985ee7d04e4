package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/braindump/internal/cli"
	"github.com/alexanderramin/braindump/internal/config"
	"github.com/alexanderramin/braindump/internal/db"
	"github.com/alexanderramin/braindump/internal/intelligence"
	"github.com/alexanderramin/braindump/internal/llm"
	"github.com/alexanderramin/braindump/internal/repository"
	"github.com/alexanderramin/braindump/internal/scheduler"
	"github.com/alexanderramin/braindump/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// A broken tuning file must not lock the user out of `config init --force`.
	base := scheduler.DefaultOptions()
	opts, file, err := config.Load(env.ConfigPath, base)
	if err != nil {
		logger.Warn("config_ignored", "path", env.ConfigPath, "error", err)
		opts = base
	}
	env.RatePerHour, env.RateBurst = file.Rate(env.RatePerHour, env.RateBurst)
	store := config.NewStore(opts)

	database, err := db.OpenDB(env.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)
	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if env.LogUseCases {
		observer = service.NewSlogUseCaseObserver(logger)
	}

	// Without an LLM both services fall back to the deterministic parser and
	// enrichment.
	var client llm.LLMClient
	if llmCfg := llm.LoadConfig(); llmCfg.Enabled {
		var llmObserver llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls {
			llmObserver = llm.NewLogObserver(os.Stderr)
		}
		client = llm.NewOllamaClient(llmCfg, llmObserver)
	}

	app := &cli.App{
		Plans: service.NewPlanService(
			repository.NewSQLitePlanRepo(database),
			uow,
			intelligence.NewParseService(client),
			intelligence.NewEnrichService(client),
			store,
			service.RateLimit{PerHour: env.RatePerHour, Burst: env.RateBurst},
			observer,
		),
		Tasks:  service.NewTaskService(uow, observer),
		Env:    env,
		Store:  store,
		Base:   base,
		Logger: logger,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
