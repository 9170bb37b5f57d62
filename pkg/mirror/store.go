// Package mirror manages the on-disk collection of bare repository
// mirrors. The directory layout follows the GitHub scheme: one directory
// per owner, one "<repo>.git" bare repository per repository. For example,
// the root might contain danielparks/replicate-github.git.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ghmirror/ghmirror/pkg/domain/interfaces"
	"github.com/ghmirror/ghmirror/pkg/domain/types"
	"github.com/ghmirror/ghmirror/pkg/utils/logging"
)

// markerFile carries the only freshness signal of a mirror: its mtime is
// the time of the last successful update. Named after the file git itself
// touches on fetch.
const markerFile = "FETCH_HEAD"

type Store struct {
	root  string
	user  types.GitHubUser
	token types.GitHubToken
	git   interfaces.GitClient
}

type Option func(*Store)

// WithCredentials sets the user and token embedded into origin URLs. They
// are derived on demand and never written anywhere but the git remote
// configuration of each mirror.
func WithCredentials(user types.GitHubUser, token types.GitHubToken) Option {
	return func(x *Store) {
		x.user = user
		x.token = token
	}
}

// New returns a Store rooted at root. The root directory must already
// exist; creating it is a deployment concern, not a runtime one.
func New(root string, git interfaces.GitClient, options ...Option) (*Store, error) {
	st, err := os.Stat(root)
	if err != nil {
		return nil, goerr.Wrap(err, "mirror directory not found", goerr.V("path", root))
	}
	if !st.IsDir() {
		return nil, goerr.Wrap(types.ErrInvalidOption, "mirror path is not a directory", goerr.V("path", root))
	}

	s := &Store{
		root: root,
		git:  git,
	}
	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

// Path returns "<root>/<owner>/<repo>.git". A validated name cannot escape
// the root.
func (x *Store) Path(name types.RepoName) (string, error) {
	if err := name.Validate(); err != nil {
		return "", err
	}
	return filepath.Join(x.root, name.Owner(), name.Repo()+".git"), nil
}

// OriginURL returns the clone URL for name with the configured credentials
// embedded.
func (x *Store) OriginURL(name types.RepoName) string {
	if x.user != "" || x.token != "" {
		return fmt.Sprintf("https://%s:%s@github.com/%s.git", string(x.user), string(x.token), name)
	}
	return fmt.Sprintf("https://github.com/%s.git", name)
}

func (x *Store) Exists(name types.RepoName) bool {
	path, err := x.Path(name)
	if err != nil {
		return false
	}
	if _, err := os.Stat(path); err != nil {
		return false
	}
	return true
}

// Initialize creates an empty bare repository for name with a mirroring
// origin remote. It fails if the mirror already exists and performs no
// network I/O.
func (x *Store) Initialize(ctx context.Context, name types.RepoName) error {
	path, err := x.Path(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return goerr.Wrap(types.ErrMirrorExists, "cannot initialize mirror", goerr.V("repo", name), goerr.V("path", path))
	}

	logging.From(ctx).Info("Initializing mirror", slog.String("repo", name.String()))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return goerr.Wrap(err, "creating owner directory", goerr.V("repo", name), goerr.T(types.ErrTagStorage))
	}
	if err := x.git.Init(path, x.OriginURL(name)); err != nil {
		return goerr.Wrap(err, "initializing bare repository", goerr.V("repo", name))
	}

	return nil
}

// Update fetches all refs of name from its origin, initializing the mirror
// first if it does not exist. A successful update refreshes the freshness
// marker.
func (x *Store) Update(ctx context.Context, name types.RepoName) error {
	path, err := x.Path(name)
	if err != nil {
		return err
	}

	if !x.Exists(name) {
		if err := x.Initialize(ctx, name); err != nil && !errors.Is(err, types.ErrMirrorExists) {
			return err
		}
	}

	logger := logging.From(ctx)
	logger.Info("Fetching mirror", slog.String("repo", name.String()))
	startedAt := time.Now()

	if err := x.git.Fetch(ctx, path); err != nil {
		return goerr.Wrap(err, "fetching mirror", goerr.V("repo", name))
	}

	if err := x.touchMarker(path); err != nil {
		return err
	}

	logger.Debug("Fetched mirror",
		slog.String("repo", name.String()),
		slog.Duration("elapsed", time.Since(startedAt)),
	)
	return nil
}

func (x *Store) touchMarker(path string) error {
	marker := filepath.Join(path, markerFile)
	now := time.Now()
	if err := os.Chtimes(marker, now, now); err == nil {
		return nil
	}
	if err := os.WriteFile(marker, nil, 0o644); err != nil {
		return goerr.Wrap(err, "updating freshness marker", goerr.V("path", marker), goerr.T(types.ErrTagStorage))
	}
	return nil
}

// removeSeq disambiguates concurrent removals within one process; the pid
// disambiguates across processes sharing the mirror root.
var removeSeq atomic.Int64

// Remove deletes the mirror for name. The directory is renamed to a hidden
// sibling first, so the name disappears from the namespace in a single
// filesystem operation before the slower recursive delete runs. Removing
// an absent mirror succeeds.
func (x *Store) Remove(ctx context.Context, name types.RepoName) error {
	path, err := x.Path(name)
	if err != nil {
		return err
	}

	logger := logging.From(ctx)
	if _, err := os.Stat(path); err != nil {
		logger.Debug("Mirror already deleted", slog.String("repo", name.String()))
		return nil
	}

	logger.Info("Deleting mirror", slog.String("repo", name.String()))

	target := filepath.Join(
		filepath.Dir(path),
		fmt.Sprintf(".%s.delete.%d.%d", filepath.Base(path), os.Getpid(), removeSeq.Add(1)),
	)
	if err := os.Rename(path, target); err != nil {
		if os.IsNotExist(err) {
			// Lost the race against another removal.
			return nil
		}
		return goerr.Wrap(err, "renaming mirror for deletion", goerr.V("repo", name), goerr.T(types.ErrTagStorage))
	}
	if err := os.RemoveAll(target); err != nil {
		return goerr.Wrap(err, "deleting mirror", goerr.V("repo", name), goerr.T(types.ErrTagStorage))
	}

	return nil
}

// ListNames expands the two-segment glob against the root directory and
// returns the names of all matching mirrors. The result is a snapshot; a
// mirror added or removed concurrently may or may not appear.
func (x *Store) ListNames(match types.MatchPattern) ([]types.RepoName, error) {
	if err := match.Validate(); err != nil {
		return nil, err
	}

	paths, err := filepath.Glob(filepath.Join(x.root, match.Owner(), match.Repo()+".git"))
	if err != nil {
		return nil, goerr.Wrap(err, "globbing mirror directory", goerr.V("pattern", match), goerr.T(types.ErrTagStorage))
	}

	names := make([]types.RepoName, 0, len(paths))
	for _, p := range paths {
		owner := filepath.Base(filepath.Dir(p))
		repo := strings.TrimSuffix(filepath.Base(p), ".git")
		name := types.RepoName(owner + "/" + repo)
		if err := name.Validate(); err != nil {
			// Renamed-for-deletion leftovers and other strays.
			continue
		}
		names = append(names, name)
	}

	return names, nil
}

// ListStale returns the names of all mirrors whose last successful update
// is older than before, oldest first. A mirror that has never been updated
// successfully sorts before everything else.
func (x *Store) ListStale(before time.Time) ([]types.RepoName, error) {
	names, err := x.ListNames("*/*")
	if err != nil {
		return nil, err
	}

	type aged struct {
		name types.RepoName
		at   time.Time
	}

	stale := make([]aged, 0, len(names))
	for _, name := range names {
		path, err := x.Path(name)
		if err != nil {
			continue
		}
		var at time.Time // zero = never updated
		if st, err := os.Stat(filepath.Join(path, markerFile)); err == nil {
			at = st.ModTime()
		}
		if at.Before(before) {
			stale = append(stale, aged{name: name, at: at})
		}
	}

	sort.Slice(stale, func(i, j int) bool {
		if stale[i].at.Equal(stale[j].at) {
			return stale[i].name < stale[j].name
		}
		return stale[i].at.Before(stale[j].at)
	})

	result := make([]types.RepoName, len(stale))
	for i, s := range stale {
		result[i] = s.name
	}
	return result, nil
}
