// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionStore deletes expired import-history records.
type RetentionStore interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler runs the import-history retention sweep on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	store  RetentionStore
	ttl    time.Duration
	spec   string
	logger *slog.Logger
	now    func() time.Time
}

// NewScheduler creates a scheduler sweeping records older than ttlDays on
// the given 5-field cron spec.
func NewScheduler(store RetentionStore, ttlDays int, spec string, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:   c,
		store:  store,
		ttl:    time.Duration(ttlDays) * 24 * time.Hour,
		spec:   spec,
		logger: logger,
		now:    time.Now,
	}
}

// Start registers and begins the scheduled sweep.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.sweep)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.String("spec", s.spec),
		slog.Duration("ttl", s.ttl),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow triggers the sweep outside the schedule (for admin use).
func (s *Scheduler) RunNow() {
	go s.sweep()
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := s.now().Add(-s.ttl)
	deleted, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("import history sweep failed", slog.Any("error", err))
		return
	}

	s.logger.Info("import history sweep completed",
		slog.Time("cutoff", cutoff),
		slog.Int64("deleted", deleted),
	)
}
