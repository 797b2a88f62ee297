package closer

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

type sweeper interface {
	Sweep(ctx context.Context, now time.Time) (domain.SweepReport, error)
}

type lease interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// Runner calls Sweep on a fixed interval until its context is cancelled.
// With a lease, replicas that fail to acquire it skip the tick. A lease
// error does not block the sweep.
type Runner struct {
	sweeper  sweeper
	lease    lease
	interval time.Duration
	log      *slog.Logger
	clock    func() time.Time
}

// NewRunner creates a Runner. l may be nil.
func NewRunner(log *slog.Logger, s sweeper, interval time.Duration, l lease) *Runner {
	return &Runner{
		sweeper:  s,
		lease:    l,
		interval: interval,
		log:      log.With("component", "closer_runner"),
		clock:    time.Now,
	}
}

// Run blocks until ctx is done. The first sweep runs immediately.
func (r *Runner) Run(ctx context.Context) {
	r.log.InfoContext(ctx, "closer runner started", slog.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		r.Tick(ctx)

		select {
		case <-ctx.Done():
			r.log.Info("closer runner stopped")
			return
		case <-ticker.C:
		}
	}
}

// Tick performs one guarded sweep and reports whether it ran.
func (r *Runner) Tick(ctx context.Context) bool {
	if r.lease != nil {
		ok, err := r.lease.Acquire(ctx)
		switch {
		case err != nil:
			r.log.WarnContext(ctx, "sweep lease unavailable, sweeping anyway", slog.String("error", err.Error()))
		case !ok:
			r.log.DebugContext(ctx, "sweep lease held elsewhere, skipping tick")
			return false
		default:
			defer func() {
				if err := r.lease.Release(context.WithoutCancel(ctx)); err != nil {
					r.log.Warn("release sweep lease", slog.String("error", err.Error()))
				}
			}()
		}
	}

	if _, err := r.sweeper.Sweep(ctx, r.clock()); err != nil && ctx.Err() == nil {
		r.log.ErrorContext(ctx, "sweep failed", slog.String("error", err.Error()))
	}
	return true
}
