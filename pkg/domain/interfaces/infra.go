package interfaces

import (
	"context"

	"github.com/ghmirror/ghmirror/pkg/domain/types"
)

// GitClient is the transfer capability for bare mirrors. Implementations
// may be slow and may fail; they never decide *when* to run.
type GitClient interface {
	// Init creates an empty bare repository at path with a single
	// mirroring remote pointing at origin. No network I/O.
	Init(path string, origin string) error

	// Fetch updates all refs of the bare repository at path from its
	// configured remote, mirroring deletions.
	Fetch(ctx context.Context, path string) error
}

// RepoLister reports the authoritative repository set of an organization.
type RepoLister interface {
	ListOrgRepos(ctx context.Context, org types.OrgName) ([]types.RepoName, error)
}
