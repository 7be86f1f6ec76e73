package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jmgilman/bookworm/internal/catalog"
	"github.com/jmgilman/bookworm/internal/slogger"
)

// Refreshable is anything whose cache can be refreshed from its source.
type Refreshable interface {
	Refresh(ctx context.Context) error
}

// Refresher reloads the catalog from the source on a cron schedule so the
// API keeps serving a recent snapshot.
type Refresher struct {
	target   Refreshable
	schedule cron.Schedule
	spec     string

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
}

// NewRefresher parses spec as a standard five-field cron expression
// (descriptors such as @hourly are accepted too).
func NewRefresher(target Refreshable, spec string) (*Refresher, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}

	return &Refresher{
		target:   target,
		schedule: schedule,
		spec:     spec,
		cron:     cron.New(),
	}, nil
}

// Start schedules refreshes until ctx is cancelled or Stop is called.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.cron.Schedule(r.schedule, cron.FuncJob(func() { r.RunNow(runCtx) }))
	r.cron.Start()
	r.isRunning = true

	slogger.L(ctx).Info("refresh scheduled", "schedule", r.spec, "next", r.Next(time.Now()))

	go func() {
		<-runCtx.Done()
		r.Stop()
	}()
}

// Stop stops the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRunning {
		return
	}

	r.cancel()
	<-r.cron.Stop().Done()
	r.isRunning = false
}

// IsRunning reports whether the schedule is active.
func (r *Refresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.isRunning
}

// Next returns the next refresh time after t.
func (r *Refresher) Next(t time.Time) time.Time {
	return r.schedule.Next(t)
}

// RunNow refreshes once. A refresh that collides with a load in progress is
// skipped; other failures are logged and the previous snapshot is kept.
func (r *Refresher) RunNow(ctx context.Context) {
	err := r.target.Refresh(ctx)
	switch {
	case err == nil:
		slogger.L(ctx).Info("catalog refreshed")
	case errors.Is(err, catalog.ErrLoadInProgress):
		slogger.L(ctx).Debug("refresh skipped, load in progress")
	default:
		slogger.L(ctx).Error("scheduled refresh failed", "error", err)
	}
}
