package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ledgerline/statement-extractor/internal/domain/account"
	"github.com/ledgerline/statement-extractor/internal/domain/categorization"
	"github.com/ledgerline/statement-extractor/internal/domain/importer/history"
	importservice "github.com/ledgerline/statement-extractor/internal/domain/importer/service"
	"github.com/ledgerline/statement-extractor/pkg/config"
	"github.com/ledgerline/statement-extractor/pkg/cron"
	"github.com/ledgerline/statement-extractor/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	AccountRepo        *account.PostgresRepository
	CategorizationRepo *categorization.Repository
	HistoryRepo        *history.Repository

	// Services
	SearchIndex           *categorization.SearchIndex
	CategorizationService *categorization.Service
	AccountMatcher        *account.Matcher
	ImportService         *importservice.Service
	Scheduler             *cron.Scheduler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	deps.initRepositories()

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

func (d *Dependencies) initRepositories() {
	d.AccountRepo = account.NewPostgresRepository(d.DB.Pool)
	d.CategorizationRepo = categorization.NewRepository(d.DB.Pool)
	d.HistoryRepo = history.NewRepository(d.DB.Pool)

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices() error {
	// In-memory bleve index over the built-in merchant dictionaries, used
	// as the classifier's last fuzzy fallback.
	si, err := categorization.NewSearchIndex("")
	if err != nil {
		return fmt.Errorf("failed to init search index: %w", err)
	}
	if err := si.IndexEntries(categorization.Dictionaries()); err != nil {
		return fmt.Errorf("failed to index dictionaries: %w", err)
	}
	d.SearchIndex = si

	d.CategorizationService = categorization.NewService(d.CategorizationRepo).WithSearchIndex(si)
	d.AccountMatcher = account.NewMatcher(d.AccountRepo, d.Logger)

	d.ImportService = importservice.NewService(d.CategorizationService, d.Logger).
		WithAccountMatcher(d.AccountMatcher).
		WithHistory(d.HistoryRepo)

	d.Scheduler = cron.NewScheduler(
		d.HistoryRepo,
		d.Config.Retention.TTLDays,
		d.Config.Retention.CronSpec,
		d.Logger,
	)

	d.Logger.Info("services initialized")
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.SearchIndex != nil {
		if err := d.SearchIndex.Close(); err != nil {
			d.Logger.Warn("failed to close search index", slog.Any("error", err))
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
