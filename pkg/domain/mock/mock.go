// Package mock provides hand-written test doubles for the domain
// interfaces, shaped like moq output: one Func field per method plus call
// recording where tests inspect it.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/ghmirror/ghmirror/pkg/domain/interfaces"
	"github.com/ghmirror/ghmirror/pkg/domain/model"
	"github.com/ghmirror/ghmirror/pkg/domain/types"
)

type RepoListerMock struct {
	ListOrgReposFunc func(ctx context.Context, org types.OrgName) ([]types.RepoName, error)
}

var _ interfaces.RepoLister = (*RepoListerMock)(nil)

func (x *RepoListerMock) ListOrgRepos(ctx context.Context, org types.OrgName) ([]types.RepoName, error) {
	return x.ListOrgReposFunc(ctx, org)
}

type GitClientMock struct {
	InitFunc  func(path string, origin string) error
	FetchFunc func(ctx context.Context, path string) error
}

var _ interfaces.GitClient = (*GitClientMock)(nil)

func (x *GitClientMock) Init(path string, origin string) error {
	if x.InitFunc == nil {
		return nil
	}
	return x.InitFunc(path, origin)
}

func (x *GitClientMock) Fetch(ctx context.Context, path string) error {
	if x.FetchFunc == nil {
		return nil
	}
	return x.FetchFunc(ctx, path)
}

type UseCaseMock struct {
	SubmitFunc       func(job model.Job) error
	UpdateMirrorFunc func(ctx context.Context, repo types.RepoName) error
	DeleteMirrorFunc func(ctx context.Context, repo types.RepoName) error
	SyncOrgFunc      func(ctx context.Context, org types.OrgName) error
	GrowOrgFunc      func(ctx context.Context, org types.OrgName) error
	UpdateStaleFunc  func(ctx context.Context, olderThan time.Duration) error
	WaitIdleFunc     func()
	ShutdownFunc     func()

	mu    sync.Mutex
	calls struct {
		Submit []model.Job
	}
}

var _ interfaces.UseCase = (*UseCaseMock)(nil)

func (x *UseCaseMock) Submit(job model.Job) error {
	x.mu.Lock()
	x.calls.Submit = append(x.calls.Submit, job)
	x.mu.Unlock()

	if x.SubmitFunc == nil {
		return nil
	}
	return x.SubmitFunc(job)
}

// SubmitCalls returns a copy of the jobs passed to Submit.
func (x *UseCaseMock) SubmitCalls() []model.Job {
	x.mu.Lock()
	defer x.mu.Unlock()
	return append([]model.Job(nil), x.calls.Submit...)
}

func (x *UseCaseMock) UpdateMirror(ctx context.Context, repo types.RepoName) error {
	if x.UpdateMirrorFunc == nil {
		return nil
	}
	return x.UpdateMirrorFunc(ctx, repo)
}

func (x *UseCaseMock) DeleteMirror(ctx context.Context, repo types.RepoName) error {
	if x.DeleteMirrorFunc == nil {
		return nil
	}
	return x.DeleteMirrorFunc(ctx, repo)
}

func (x *UseCaseMock) SyncOrg(ctx context.Context, org types.OrgName) error {
	if x.SyncOrgFunc == nil {
		return nil
	}
	return x.SyncOrgFunc(ctx, org)
}

func (x *UseCaseMock) GrowOrg(ctx context.Context, org types.OrgName) error {
	if x.GrowOrgFunc == nil {
		return nil
	}
	return x.GrowOrgFunc(ctx, org)
}

func (x *UseCaseMock) UpdateStale(ctx context.Context, olderThan time.Duration) error {
	if x.UpdateStaleFunc == nil {
		return nil
	}
	return x.UpdateStaleFunc(ctx, olderThan)
}

func (x *UseCaseMock) WaitIdle() {
	if x.WaitIdleFunc != nil {
		x.WaitIdleFunc()
	}
}

func (x *UseCaseMock) Shutdown() {
	if x.ShutdownFunc != nil {
		x.ShutdownFunc()
	}
}
