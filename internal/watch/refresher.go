// Package watch keeps the dashboard figures fresh by periodically invalidating
// the volatile query families and reading them back.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/example/resama/internal/application"
	"github.com/example/resama/internal/domain"
)

// ErrNoSession is returned by RunOnce while nobody is signed in.
var ErrNoSession = errors.New("watch: no active session")

const defaultRunTimeout = 30 * time.Second

// Source is the cached query layer the refresher drives.
type Source interface {
	Refresh(families ...string)
	DashboardStats(ctx context.Context) (domain.DashboardStats, error)
	Reservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error)
}

// SessionChecker reports whether a user is signed in.
type SessionChecker interface {
	IsAuthenticated() bool
}

// Snapshot is what one refresh observed.
type Snapshot struct {
	At      time.Time
	Stats   domain.DashboardStats
	Today   int
	Pending int
}

type Config struct {
	Source   Source
	Session  SessionChecker
	Schedule string
	// Timeout bounds a scheduled run; zero means 30s.
	Timeout   time.Duration
	Now       func() time.Time
	OnRefresh func(Snapshot)
	Logger    *slog.Logger
}

// Refresher runs RunOnce on a cron schedule.
type Refresher struct {
	source    Source
	session   SessionChecker
	schedule  string
	timeout   time.Duration
	now       func() time.Time
	onRefresh func(Snapshot)
	logger    *slog.Logger
	cron      *cron.Cron
}

func New(cfg Config) (*Refresher, error) {
	if cfg.Source == nil {
		return nil, errors.New("watch: source is required")
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 1m"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRunTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := &Refresher{
		source:    cfg.Source,
		session:   cfg.Session,
		schedule:  cfg.Schedule,
		timeout:   cfg.Timeout,
		now:       cfg.Now,
		onRefresh: cfg.OnRefresh,
		logger:    cfg.Logger.With("component", "Refresher"),
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
	if _, err := r.cron.AddFunc(cfg.Schedule, r.run); err != nil {
		return nil, fmt.Errorf("watch: schedule %q: %w", cfg.Schedule, err)
	}
	return r, nil
}

func (r *Refresher) Start() {
	r.logger.Info("refresher started", "schedule", r.schedule)
	r.cron.Start()
}

// Stop halts the schedule and waits for a running refresh, or for ctx.
func (r *Refresher) Stop(ctx context.Context) error {
	done := r.cron.Stop()
	select {
	case <-done.Done():
		r.logger.Info("refresher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Refresher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	snap, err := r.RunOnce(ctx)
	switch {
	case errors.Is(err, ErrNoSession):
		r.logger.Debug("refresh skipped, no session")
		return
	case err != nil:
		r.logger.Warn("refresh failed", "error", err, "error_kind", application.ErrorKind(err))
		return
	}
	if r.onRefresh != nil {
		r.onRefresh(snap)
	}
}

// RunOnce invalidates reservations and dashboard figures, then reads the
// dashboard statistics and today's reservations again.
func (r *Refresher) RunOnce(ctx context.Context) (snap Snapshot, err error) {
	if r.session != nil && !r.session.IsAuthenticated() {
		return Snapshot{}, ErrNoSession
	}

	start := r.now()
	defer func() {
		if err != nil {
			return
		}
		r.logger.InfoContext(ctx, "dashboard refreshed",
			"today", snap.Today,
			"pending", snap.Pending,
			"duration", time.Since(start),
		)
	}()

	r.source.Refresh(application.FamilyReservations, application.FamilyDashboard)

	stats, err := r.source.DashboardStats(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("dashboard stats: %w", err)
	}

	today := domain.DateOf(start)
	reservations, err := r.source.Reservations(ctx, domain.ReservationFilter{From: today, To: today})
	if err != nil {
		return Snapshot{}, fmt.Errorf("reservations of the day: %w", err)
	}

	snap = Snapshot{At: start, Stats: stats}
	for _, res := range reservations {
		switch res.Status {
		case domain.StatusCancelled:
			continue
		case domain.StatusPending:
			snap.Pending++
		}
		snap.Today++
	}
	return snap, nil
}
