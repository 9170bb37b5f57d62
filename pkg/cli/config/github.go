package config

import (
	"log/slog"
	"net/http"

	"github.com/urfave/cli/v3"

	"github.com/ghmirror/ghmirror/pkg/domain/types"
	"github.com/ghmirror/ghmirror/pkg/infra/ghapi"
)

type GitHub struct {
	user  types.GitHubUser
	token types.GitHubToken `masq:"secret"`
}

func (x *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-user",
			Usage:       "GitHub user embedded in clone URLs",
			Category:    "GitHub",
			Sources:     cli.EnvVars("GHMIRROR_GITHUB_USER"),
			Destination: (*string)(&x.user),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token for cloning and listing repositories",
			Category:    "GitHub",
			Sources:     cli.EnvVars("GHMIRROR_GITHUB_TOKEN"),
			Destination: (*string)(&x.token),
		},
	}
}

func (x GitHub) User() types.GitHubUser {
	return x.user
}

func (x GitHub) Token() types.GitHubToken {
	return x.token
}

func (x GitHub) NewLister(httpClient *http.Client) *ghapi.Client {
	return ghapi.New(httpClient, x.token)
}

func (x GitHub) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("User", string(x.user)),
		slog.Int("Token.len", len(x.token)),
	)
}
