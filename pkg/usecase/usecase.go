package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ghmirror/ghmirror/pkg/domain/interfaces"
	"github.com/ghmirror/ghmirror/pkg/domain/model"
	"github.com/ghmirror/ghmirror/pkg/domain/types"
	"github.com/ghmirror/ghmirror/pkg/infra"
	"github.com/ghmirror/ghmirror/pkg/jobs"
	"github.com/ghmirror/ghmirror/pkg/mirror"
)

type UseCase struct {
	clients *infra.Clients
	store   *mirror.Store
	manager *jobs.Manager
	locks   nameLocks

	// submit is the manager's Submit unless a test swaps in a recorder.
	submit func(job model.Job) error

	workerCount int
}

var _ interfaces.UseCase = (*UseCase)(nil)

type Option func(*UseCase)

// WithWorkers sets the number of job workers. The count is fixed for the
// lifetime of the use case.
func WithWorkers(n int) Option {
	return func(x *UseCase) {
		x.workerCount = n
	}
}

func New(clients *infra.Clients, store *mirror.Store, options ...Option) *UseCase {
	uc := &UseCase{
		clients:     clients,
		store:       store,
		workerCount: 2,
	}
	for _, opt := range options {
		opt(uc)
	}

	uc.manager = jobs.New(uc.workerCount, uc.execute)
	uc.submit = uc.manager.Submit

	return uc
}

func (x *UseCase) Submit(job model.Job) error {
	return x.submit(job)
}

func (x *UseCase) WaitIdle() {
	x.manager.Wait()
}

func (x *UseCase) Shutdown() {
	x.manager.Shutdown()
}

// execute dispatches one job to its handler. Fan-out handlers submit
// follow-up jobs before returning, while the running job is still counted
// as in flight.
func (x *UseCase) execute(ctx context.Context, job model.Job) error {
	switch j := job.(type) {
	case model.UpdateMirrorJob:
		return x.UpdateMirror(ctx, j.Repo)
	case model.DeleteMirrorJob:
		return x.DeleteMirror(ctx, j.Repo)
	case model.SyncOrgJob:
		return x.SyncOrg(ctx, j.Org)
	case model.UpdateStaleJob:
		return x.UpdateStale(ctx, j.OlderThan)
	default:
		return goerr.Wrap(types.ErrInvalidOption, "unknown job kind", goerr.V("kind", job.Kind()))
	}
}

// nameLocks serializes update and delete of the same repository name. The
// reference behavior let them race; a delete could pull the directory out
// from under an in-progress fetch. Entries are never evicted, which is
// bounded by the number of distinct names seen.
type nameLocks struct {
	mu    sync.Mutex
	locks map[types.RepoName]*sync.Mutex
}

func (x *nameLocks) acquire(name types.RepoName) func() {
	x.mu.Lock()
	if x.locks == nil {
		x.locks = make(map[types.RepoName]*sync.Mutex)
	}
	l, ok := x.locks[name]
	if !ok {
		l = &sync.Mutex{}
		x.locks[name] = l
	}
	x.mu.Unlock()

	l.Lock()
	return l.Unlock
}
