package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/trackline/internal/cli"
	"github.com/alexanderramin/trackline/internal/config"
	"github.com/alexanderramin/trackline/internal/db"
	"github.com/alexanderramin/trackline/internal/repository"
	"github.com/alexanderramin/trackline/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	env := config.EnvMap(os.Environ())
	cfg, err := config.Load(env)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	featureRepo := repository.NewSQLiteFeatureRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	// Use-case telemetry only at info verbosity or louder.
	var observers []service.UseCaseObserver
	var timelineOpts []service.TimelineOption
	if cfg.SlogLevel() <= slog.LevelInfo {
		obs := service.NewLogUseCaseObserver(os.Stderr)
		observers = append(observers, obs)
		timelineOpts = append(timelineOpts, service.WithObserver(obs))
	}

	app := &cli.App{
		Projects:     service.NewProjectService(projectRepo, observers...),
		Features:     service.NewFeatureService(featureRepo, projectRepo, uow, observers...),
		Timeline:     service.NewTimelineService(projectRepo, featureRepo, depRepo, cfg.Timeline(), timelineOpts...),
		Dependencies: service.NewDependencyService(featureRepo, depRepo, uow, observers...),
		Config:       cfg,
		ConfigPath:   config.Path(env),
		Logger:       logger,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
