// Package ghapi lists organization repositories through the GitHub REST
// API. It is the only component that talks to the API; everything else
// works from the local mirror directory.
package ghapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"

	"github.com/ghmirror/ghmirror/pkg/domain/interfaces"
	"github.com/ghmirror/ghmirror/pkg/domain/types"
	"github.com/ghmirror/ghmirror/pkg/utils/logging"
)

type Client struct {
	gh *github.Client
}

var _ interfaces.RepoLister = (*Client)(nil)

// New returns a lister on top of httpClient, authenticated with token. An
// empty token gives an unauthenticated client, which is enough for public
// organizations.
func New(httpClient *http.Client, token types.GitHubToken) *Client {
	if token == "" {
		return &Client{gh: github.NewClient(httpClient)}
	}

	// NewTokenClient takes the base transport from the context.
	ctx := context.Background()
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}
	return &Client{gh: github.NewTokenClient(ctx, string(token))}
}

func (x *Client) ListOrgRepos(ctx context.Context, org types.OrgName) ([]types.RepoName, error) {
	if err := org.Validate(); err != nil {
		return nil, err
	}

	opt := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var names []types.RepoName
	for {
		repos, resp, err := x.gh.Repositories.ListByOrg(ctx, org.String(), opt)
		if err != nil {
			return nil, goerr.Wrap(err, "listing organization repositories",
				goerr.V("org", org), goerr.T(types.ErrTagListing))
		}

		for _, repo := range repos {
			name := types.RepoName(repo.GetFullName())
			if err := name.Validate(); err != nil {
				logging.From(ctx).Warn("skipping repository with unusable name",
					slog.String("full_name", repo.GetFullName()),
					slog.Any("error", err),
				)
				continue
			}
			names = append(names, name)
		}

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	logging.From(ctx).Debug("listed organization repositories",
		slog.String("org", org.String()),
		slog.Int("count", len(names)),
	)
	return names, nil
}
