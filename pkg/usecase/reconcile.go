package usecase

import (
	"context"
	"log/slog"
	"sort"

	"github.com/ghmirror/ghmirror/pkg/domain/model"
	"github.com/ghmirror/ghmirror/pkg/domain/types"
	"github.com/ghmirror/ghmirror/pkg/utils/logging"
)

// SyncOrg reconciles the local mirror set of org against the repositories
// GitHub reports: missing mirrors get update jobs, mirrors of repositories
// no longer reported get delete jobs, mirrors already present are left
// untouched.
//
// The remote and local listings are taken without a lock between them, so
// a mirror added or removed concurrently can lag one cycle; the next sync
// corrects it.
func (x *UseCase) SyncOrg(ctx context.Context, org types.OrgName) error {
	desired, actual, err := x.listBothSides(ctx, org)
	if err != nil {
		return err
	}

	toUpdate := subtract(desired, actual)
	toDelete := subtract(actual, desired)

	logging.From(ctx).Info("Synchronizing organization",
		slog.String("org", org.String()),
		slog.Int("desired", len(desired)),
		slog.Int("actual", len(actual)),
		slog.Int("update", len(toUpdate)),
		slog.Int("delete", len(toDelete)),
	)

	return x.submitDiff(toUpdate, toDelete)
}

// GrowOrg ensures org is fully mirrored and current: every reported
// repository gets an update job whether its mirror exists or not, and
// mirrors of repositories no longer reported get delete jobs.
func (x *UseCase) GrowOrg(ctx context.Context, org types.OrgName) error {
	desired, actual, err := x.listBothSides(ctx, org)
	if err != nil {
		return err
	}

	toDelete := subtract(actual, desired)

	logging.From(ctx).Info("Mirroring organization",
		slog.String("org", org.String()),
		slog.Int("desired", len(desired)),
		slog.Int("delete", len(toDelete)),
	)

	return x.submitDiff(sorted(desired), toDelete)
}

func (x *UseCase) listBothSides(ctx context.Context, org types.OrgName) (desired, actual map[types.RepoName]struct{}, err error) {
	if err := org.Validate(); err != nil {
		return nil, nil, err
	}

	remote, err := x.clients.GitHub().ListOrgRepos(ctx, org)
	if err != nil {
		return nil, nil, err
	}
	local, err := x.store.ListNames(org.Match())
	if err != nil {
		return nil, nil, err
	}

	return toSet(remote), toSet(local), nil
}

func (x *UseCase) submitDiff(toUpdate, toDelete []types.RepoName) error {
	for _, name := range toUpdate {
		if err := x.submit(model.UpdateMirrorJob{Repo: name}); err != nil {
			return err
		}
	}
	for _, name := range toDelete {
		if err := x.submit(model.DeleteMirrorJob{Repo: name}); err != nil {
			return err
		}
	}
	return nil
}

func toSet(names []types.RepoName) map[types.RepoName]struct{} {
	set := make(map[types.RepoName]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// subtract returns the names in a that are not in b, sorted for
// deterministic submission order.
func subtract(a, b map[types.RepoName]struct{}) []types.RepoName {
	var names []types.RepoName
	for name := range a {
		if _, ok := b[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func sorted(a map[types.RepoName]struct{}) []types.RepoName {
	names := make([]types.RepoName, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
