package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/ghmirror/ghmirror/pkg/domain/model"
	"github.com/ghmirror/ghmirror/pkg/domain/types"
	"github.com/ghmirror/ghmirror/pkg/utils/logging"
)

// UpdateMirror fetches all refs of repo into its local mirror, creating
// the mirror first when absent.
func (x *UseCase) UpdateMirror(ctx context.Context, repo types.RepoName) error {
	if err := repo.Validate(); err != nil {
		return err
	}

	unlock := x.locks.acquire(repo)
	defer unlock()

	return x.store.Update(ctx, repo)
}

// DeleteMirror removes the local mirror of repo. Absent mirrors are a
// no-op.
func (x *UseCase) DeleteMirror(ctx context.Context, repo types.RepoName) error {
	if err := repo.Validate(); err != nil {
		return err
	}

	unlock := x.locks.acquire(repo)
	defer unlock()

	return x.store.Remove(ctx, repo)
}

// UpdateStale submits an update job for every mirror whose last successful
// update is older than olderThan, oldest first.
func (x *UseCase) UpdateStale(ctx context.Context, olderThan time.Duration) error {
	before := time.Now().Add(-olderThan)

	names, err := x.store.ListStale(before)
	if err != nil {
		return err
	}

	logging.From(ctx).Info("Freshening stale mirrors",
		slog.Duration("older_than", olderThan),
		slog.Int("count", len(names)),
	)

	for _, name := range names {
		if err := x.submit(model.UpdateMirrorJob{Repo: name}); err != nil {
			return err
		}
	}
	return nil
}
