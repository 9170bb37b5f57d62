// Package gogit implements the transfer capability with go-git. Mirrors
// are bare repositories whose origin remote carries the refspec
// "+refs/*:refs/*", so a fetch with prune replicates ref deletions too.
package gogit

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/m-mizutani/goerr/v2"

	"github.com/ghmirror/ghmirror/pkg/domain/interfaces"
	"github.com/ghmirror/ghmirror/pkg/domain/types"
)

const mirrorRefSpec = gitconfig.RefSpec("+refs/*:refs/*")

type Client struct{}

var _ interfaces.GitClient = (*Client)(nil)

func New() *Client {
	return &Client{}
}

func (x *Client) Init(path string, origin string) error {
	repo, err := git.PlainInit(path, true)
	if err != nil {
		return goerr.Wrap(err, "initializing bare repository", goerr.V("path", path), goerr.T(types.ErrTagStorage))
	}

	if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{
		Name:  git.DefaultRemoteName,
		URLs:  []string{origin},
		Fetch: []gitconfig.RefSpec{mirrorRefSpec},
	}); err != nil {
		return goerr.Wrap(err, "adding mirror remote", goerr.V("path", path), goerr.T(types.ErrTagStorage))
	}

	return nil
}

func (x *Client) Fetch(ctx context.Context, path string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return goerr.Wrap(err, "opening bare repository", goerr.V("path", path), goerr.T(types.ErrTagStorage))
	}

	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: git.DefaultRemoteName,
		RefSpecs:   []gitconfig.RefSpec{mirrorRefSpec},
		Prune:      true,
		Force:      true,
		Tags:       git.AllTags,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return goerr.Wrap(err, "fetching from origin", goerr.V("path", path), goerr.T(types.ErrTagTransfer))
	}

	return nil
}
