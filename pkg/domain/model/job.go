package model

import (
	"log/slog"
	"time"

	"github.com/ghmirror/ghmirror/pkg/domain/types"
)

// Job is one unit of work for the job manager. The set of implementations
// is closed: executors switch over the concrete types and treat anything
// else as a bug. A job carries no identity; it exists only while queued or
// running.
type Job interface {
	Kind() string
	isJob()
}

// UpdateMirrorJob fetches all refs of one repository into its local mirror,
// initializing the mirror first if it does not exist yet.
type UpdateMirrorJob struct {
	Repo types.RepoName
}

func (UpdateMirrorJob) Kind() string { return "update_mirror" }
func (UpdateMirrorJob) isJob()       {}

func (x UpdateMirrorJob) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", x.Kind()),
		slog.String("repo", x.Repo.String()),
	)
}

// DeleteMirrorJob removes one local mirror. Deleting an absent mirror is a
// no-op.
type DeleteMirrorJob struct {
	Repo types.RepoName
}

func (DeleteMirrorJob) Kind() string { return "delete_mirror" }
func (DeleteMirrorJob) isJob()       {}

func (x DeleteMirrorJob) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", x.Kind()),
		slog.String("repo", x.Repo.String()),
	)
}

// SyncOrgJob reconciles the local mirror set of one organization against
// the repositories GitHub reports, fanning out update and delete jobs.
type SyncOrgJob struct {
	Org types.OrgName
}

func (SyncOrgJob) Kind() string { return "sync_org" }
func (SyncOrgJob) isJob()       {}

func (x SyncOrgJob) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", x.Kind()),
		slog.String("org", x.Org.String()),
	)
}

// UpdateStaleJob fans out update jobs for every mirror whose last
// successful update is older than OlderThan.
type UpdateStaleJob struct {
	OlderThan time.Duration
}

func (UpdateStaleJob) Kind() string { return "update_stale" }
func (UpdateStaleJob) isJob()       {}

func (x UpdateStaleJob) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", x.Kind()),
		slog.Duration("older_than", x.OlderThan),
	)
}
