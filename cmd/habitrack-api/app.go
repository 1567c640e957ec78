package main

import (
	"context"
	"fmt"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/config"
	"github.com/JonnyWalker81/habitrack/backend/internal/logger"
	"github.com/JonnyWalker81/habitrack/backend/internal/metrics"
	"github.com/JonnyWalker81/habitrack/backend/internal/repository"
	"github.com/JonnyWalker81/habitrack/backend/internal/repository/sqlstore"
	"github.com/JonnyWalker81/habitrack/backend/internal/service"
	"github.com/JonnyWalker81/habitrack/backend/pkg/supabase"
	gobreaker "github.com/sony/gobreaker/v2"
)

// app holds what every subcommand needs: config, logger and storage
type app struct {
	cfg      *config.Config
	log      logger.Logger
	stores   repository.Stores
	supabase *supabase.Client
	sql      *sqlstore.Store

	closeLog func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	out, closeLog, err := logger.Output(logger.FileConfig{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open log output: %w", err)
	}

	log := logger.New(logger.Config{
		Level:   logger.ParseLevel(cfg.Log.Level),
		Format:  cfg.Log.Format,
		Backend: cfg.Log.Backend,
		Output:  out,
	})
	logger.SetDefault(log)

	a := &app{cfg: cfg, log: log, closeLog: closeLog}

	if cfg.Supabase.URL != "" {
		a.supabase = supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey, supabase.BreakerSettings{
			MaxRequests:      cfg.Breaker.MaxRequests,
			Interval:         cfg.Breaker.Interval,
			Timeout:          cfg.Breaker.Timeout,
			FailureThreshold: cfg.Breaker.FailureThreshold,
			OnStateChange: func(name string, from, to gobreaker.State) {
				metrics.RecordBreakerTransition(name, from, to)
				log.Warn("circuit breaker state changed",
					logger.String("breaker", name),
					logger.String("from", from.String()),
					logger.String("to", to.String()),
				)
			},
		})
	}

	if cfg.IsSupabase() {
		a.stores = repository.Stores{
			Habits:   repository.NewHabitRepository(a.supabase),
			Logs:     repository.NewHabitLogRepository(a.supabase),
			Evidence: repository.NewEvidenceRepository(a.supabase),
		}
		return a, nil
	}

	store, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		a.close()
		return nil, err
	}
	a.sql = store
	a.stores = store.Stores()

	return a, nil
}

// migrate applies pending schema migrations for the SQL drivers
func (a *app) migrate(ctx context.Context) error {
	if a.sql == nil {
		a.log.Info("supabase schema is managed by supabase migrations; nothing to apply")
		return nil
	}

	applied, err := a.sql.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	a.log.Info("database migrated",
		logger.String("driver", a.cfg.Database.Driver),
		logger.Int("applied", applied),
	)
	return nil
}

func (a *app) settings() service.Settings {
	return service.Settings{
		Location:             a.cfg.Analytics.Location(),
		RiskLookbackDays:     a.cfg.Analytics.RiskLookbackDays,
		TimingLookbackDays:   a.cfg.Analytics.TimingLookbackDays,
		ReminderLookbackDays: a.cfg.Analytics.ReminderLookbackDays,
		Now:                  time.Now,
	}
}

func (a *app) close() {
	if a.sql != nil {
		if err := a.sql.Close(); err != nil {
			a.log.Warn("failed to close database", logger.Err(err))
		}
	}
	if a.closeLog != nil {
		a.closeLog()
	}
}
