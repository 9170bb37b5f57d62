package interfaces

import (
	"context"
	"time"

	"github.com/ghmirror/ghmirror/pkg/domain/model"
	"github.com/ghmirror/ghmirror/pkg/domain/types"
)

type UseCase interface {
	// Submit enqueues a job and returns immediately. Jobs submitted after
	// Shutdown are rejected.
	Submit(job model.Job) error

	UpdateMirror(ctx context.Context, repo types.RepoName) error
	DeleteMirror(ctx context.Context, repo types.RepoName) error

	// SyncOrg creates missing mirrors and removes mirrors GitHub no longer
	// reports. GrowOrg additionally refreshes every reported repository,
	// not just the missing ones.
	SyncOrg(ctx context.Context, org types.OrgName) error
	GrowOrg(ctx context.Context, org types.OrgName) error

	UpdateStale(ctx context.Context, olderThan time.Duration) error

	// WaitIdle blocks until every submitted job, including jobs submitted
	// by running jobs, has finished.
	WaitIdle()

	// Shutdown drains all queued work and stops the workers.
	Shutdown()
}
