// Package jobs runs mirror jobs on a fixed pool of workers. Jobs may
// submit follow-up jobs while they run; the manager tracks the whole
// transitive closure with a single in-flight count so that Wait only
// returns at true quiescence.
package jobs

import (
	"context"
	"log/slog"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ghmirror/ghmirror/pkg/domain/model"
	"github.com/ghmirror/ghmirror/pkg/domain/types"
	"github.com/ghmirror/ghmirror/pkg/utils/errutil"
	"github.com/ghmirror/ghmirror/pkg/utils/logging"
)

// Executor runs a single job. It may call Submit on the manager it runs
// under; those submissions are counted before the running job is.
type Executor func(ctx context.Context, job model.Job) error

type Manager struct {
	exec Executor

	mu       sync.Mutex
	ready    *sync.Cond // a job was enqueued or the manager closed
	idle     *sync.Cond // the in-flight count reached zero
	queue    []model.Job
	inFlight int
	closed   bool

	wg sync.WaitGroup
}

// New starts workers goroutines pulling from a shared FIFO queue.
//
// Jobs are executed under context.Background: none of the job kinds are
// cancellable once dispatched, and a hung transfer occupies its worker
// until it returns.
func New(workers int, exec Executor) *Manager {
	if workers < 1 {
		workers = 1
	}

	x := &Manager{exec: exec}
	x.ready = sync.NewCond(&x.mu)
	x.idle = sync.NewCond(&x.mu)

	logging.Default().Info("starting job workers", slog.Int("workers", workers))

	x.wg.Add(workers)
	for range workers {
		go x.work()
	}

	return x
}

// Submit enqueues job and returns immediately; the queue is unbounded.
// The in-flight count is raised before the job becomes visible to any
// worker, so a fan-out parent that submits children before returning
// never lets the count touch zero early.
func (x *Manager) Submit(job model.Job) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return goerr.Wrap(types.ErrManagerClosed, "rejecting job", goerr.V("kind", job.Kind()))
	}

	x.inFlight++
	x.queue = append(x.queue, job)
	x.ready.Signal()
	return nil
}

// Wait blocks until every submitted job, including jobs submitted by
// running jobs, has finished.
func (x *Manager) Wait() {
	x.mu.Lock()
	defer x.mu.Unlock()
	for x.inFlight > 0 {
		x.idle.Wait()
	}
}

// Shutdown drains all queued work, then stops accepting submissions and
// releases the workers. Safe to call once.
func (x *Manager) Shutdown() {
	x.Wait()

	x.mu.Lock()
	x.closed = true
	x.ready.Broadcast()
	x.mu.Unlock()

	x.wg.Wait()
	logging.Default().Debug("job workers stopped")
}

func (x *Manager) work() {
	defer x.wg.Done()

	for {
		x.mu.Lock()
		for len(x.queue) == 0 && !x.closed {
			x.ready.Wait()
		}
		if len(x.queue) == 0 {
			x.mu.Unlock()
			return
		}
		job := x.queue[0]
		x.queue = x.queue[1:]
		x.mu.Unlock()

		x.run(job)

		// The job's own fan-out ran inside run, so any children are
		// already counted when the parent comes off the count.
		x.mu.Lock()
		x.inFlight--
		if x.inFlight == 0 {
			x.idle.Broadcast()
		}
		x.mu.Unlock()
	}
}

// run executes one job and contains its failure: a failing or panicking
// job is reported and the worker keeps pulling from the queue.
func (x *Manager) run(job model.Job) {
	ctx := logging.With(context.Background(), logging.Default().With(slog.String("job_kind", job.Kind())))

	defer func() {
		if r := recover(); r != nil {
			logging.From(ctx).Error("job panicked",
				slog.Any("job", job),
				slog.Any("panic", r),
			)
		}
	}()

	if err := x.exec(ctx, job); err != nil {
		errutil.HandleError(ctx, "job failed", goerr.Wrap(err, "executing job", goerr.V("job", job)))
	}
}
