package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/charlesng35/roomrental/internal/cache"
	"github.com/charlesng35/roomrental/internal/services"
	"github.com/charlesng35/roomrental/pkg/logger"
)

const (
	defaultSweepSpec     = "@every 1h"
	defaultRetentionSpec = "@daily"
	defaultLockTTL       = 5 * time.Minute
	defaultRetention     = 30 * 24 * time.Hour

	sweepLockKey = "lease-sweep"
)

// LeaseSweeper recomputes lease statuses.
type LeaseSweeper interface {
	Sweep(ctx context.Context) (*services.SweepResult, error)
}

// NotificationPurger removes stale read notifications.
type NotificationPurger interface {
	PurgeRead(ctx context.Context, retention time.Duration) (int64, error)
}

// Scheduler runs the lease status sweep and notification retention in the background.
type Scheduler struct {
	leases        LeaseSweeper
	notifications NotificationPurger
	locker        cache.Locker
	cron          *cron.Cron
	log           *zap.Logger

	sweepSchedule     string
	retentionSchedule string
	retention         time.Duration
	lockTTL           time.Duration
}

// Option customises the Scheduler.
type Option func(*Scheduler)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.cron = c
		}
	}
}

// WithLocker coordinates sweeps across replicas.
func WithLocker(locker cache.Locker) Option {
	return func(s *Scheduler) {
		if locker != nil {
			s.locker = locker
		}
	}
}

// WithSweepSchedule overrides the cron specification for the lease sweep.
func WithSweepSchedule(spec string) Option {
	return func(s *Scheduler) {
		if spec != "" {
			s.sweepSchedule = spec
		}
	}
}

// WithRetentionSchedule overrides the cron specification for notification retention.
func WithRetentionSchedule(spec string) Option {
	return func(s *Scheduler) {
		if spec != "" {
			s.retentionSchedule = spec
		}
	}
}

// WithRetention sets how long read notifications are kept.
func WithRetention(retention time.Duration) Option {
	return func(s *Scheduler) {
		if retention > 0 {
			s.retention = retention
		}
	}
}

// WithLockTTL bounds how long a crashed replica can block the sweep.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *Scheduler) {
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// NewScheduler constructs a Scheduler. A nil notifications purger disables retention.
func NewScheduler(leases LeaseSweeper, notifications NotificationPurger, opts ...Option) *Scheduler {
	s := &Scheduler{
		leases:            leases,
		notifications:     notifications,
		locker:            cache.NewLocalLocker(),
		sweepSchedule:     defaultSweepSpec,
		retentionSchedule: defaultRetentionSpec,
		retention:         defaultRetention,
		lockTTL:           defaultLockTTL,
		log:               logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cron == nil {
		s.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return s
}

// Start registers the jobs with the cron scheduler and launches it.
func (s *Scheduler) Start() error {
	if s.leases != nil {
		if _, err := s.cron.AddFunc(s.sweepSchedule, func() {
			if _, err := s.Sweep(context.Background()); err != nil {
				s.log.Warn("lease sweep failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	if s.notifications != nil {
		if _, err := s.cron.AddFunc(s.retentionSchedule, func() {
			if _, err := s.notifications.PurgeRead(context.Background(), s.retention); err != nil {
				s.log.Warn("notification retention failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.log.Info("maintenance scheduler started",
		zap.String("sweep_schedule", s.sweepSchedule),
		zap.String("retention_schedule", s.retentionSchedule))
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (s *Scheduler) Stop() context.Context {
	if s.cron == nil {
		return context.Background()
	}
	return s.cron.Stop()
}

// Sweep runs one lease sweep if no other replica holds the sweep lock. It returns
// ran == false when the lock was busy.
func (s *Scheduler) Sweep(ctx context.Context) (ran bool, err error) {
	if s.leases == nil {
		return false, nil
	}

	unlock, ok, err := s.locker.TryLock(ctx, sweepLockKey, s.lockTTL)
	if err != nil {
		return false, err
	}
	if !ok {
		s.log.Debug("lease sweep skipped, lock held elsewhere")
		return false, nil
	}
	defer func() {
		if releaseErr := unlock(context.Background()); releaseErr != nil {
			s.log.Warn("release sweep lock", zap.Error(releaseErr))
		}
	}()

	result, err := s.leases.Sweep(ctx)
	if result != nil {
		s.log.Debug("lease sweep finished",
			zap.Int("expired", len(result.Expired)),
			zap.Int("ending_soon", len(result.EndingSoon)))
	}
	return true, err
}

// RunOnce executes every configured job sequentially. Used by the CLI and in tests.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if _, err := s.Sweep(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}

	if s.notifications != nil {
		if _, err := s.notifications.PurgeRead(ctx, s.retention); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}
