// Package scheduler drives periodic reconciliation. Webhooks are
// fire-and-forget, so the scheduler is what guarantees a lost or silently
// failed job gets corrected.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ghmirror/ghmirror/pkg/domain/interfaces"
	"github.com/ghmirror/ghmirror/pkg/domain/model"
	"github.com/ghmirror/ghmirror/pkg/domain/types"
	"github.com/ghmirror/ghmirror/pkg/utils/logging"
)

type Scheduler struct {
	uc       interfaces.UseCase
	interval time.Duration
	orgs     []types.OrgName
	maxAge   time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

type Option func(*Scheduler)

// WithOrgs sets the organizations kept synchronized on every tick.
func WithOrgs(orgs ...types.OrgName) Option {
	return func(x *Scheduler) {
		x.orgs = append(x.orgs, orgs...)
	}
}

// WithMaxAge enables the freshness sweep: every tick re-updates mirrors
// older than maxAge. Zero disables the sweep.
func WithMaxAge(maxAge time.Duration) Option {
	return func(x *Scheduler) {
		x.maxAge = maxAge
	}
}

func New(uc interfaces.UseCase, interval time.Duration, options ...Option) *Scheduler {
	x := &Scheduler{
		uc:       uc,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(x)
	}
	return x
}

// Start launches the background loop and returns immediately. The timer
// is re-armed after each run, so a slow tick delays the next one instead
// of overlapping it.
func (x *Scheduler) Start(ctx context.Context) {
	logging.From(ctx).Info("starting scheduler",
		slog.Duration("interval", x.interval),
		slog.Any("orgs", x.orgs),
		slog.Duration("max_age", x.maxAge),
	)

	go func() {
		defer close(x.done)

		timer := time.NewTimer(x.interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-x.stop:
				return
			case <-timer.C:
			}

			x.tick(ctx)
			timer.Reset(x.interval)
		}
	}()
}

// Stop halts the loop and waits for a tick in progress to finish. The
// jobs a tick submitted keep running; draining them is the job manager's
// concern.
func (x *Scheduler) Stop() {
	x.stopOnce.Do(func() {
		close(x.stop)
	})
	<-x.done
}

// tick is purely additive: it only submits jobs and never waits for them.
func (x *Scheduler) tick(ctx context.Context) {
	logger := logging.From(ctx)
	logger.Debug("scheduler tick")

	for _, org := range x.orgs {
		if err := x.uc.Submit(model.SyncOrgJob{Org: org}); err != nil {
			logger.Error("failed to queue sync job",
				slog.String("org", org.String()),
				slog.Any("error", err),
			)
		}
	}

	if x.maxAge > 0 {
		if err := x.uc.Submit(model.UpdateStaleJob{OlderThan: x.maxAge}); err != nil {
			logger.Error("failed to queue freshness sweep", slog.Any("error", err))
		}
	}
}
