package cli

import (
	"net/http"
	"time"

	"github.com/ghmirror/ghmirror/pkg/cli/config"
	"github.com/ghmirror/ghmirror/pkg/infra"
	"github.com/ghmirror/ghmirror/pkg/usecase"
)

// buildUseCase wires the full stack for one command: the git client, the
// mirror store, the GitHub lister and the job workers. The lister and the
// container share one HTTP client; the timeout bounds REST calls only,
// git transfers run on go-git's own transport.
func buildUseCase(mirrorCfg *config.Mirror, githubCfg *config.GitHub) (*usecase.UseCase, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	clients := infra.New(
		infra.WithHTTPClient(httpClient),
		infra.WithGitHub(githubCfg.NewLister(httpClient)),
	)

	store, err := mirrorCfg.NewStore(clients.Git(), githubCfg.User(), githubCfg.Token())
	if err != nil {
		return nil, err
	}

	return usecase.New(clients, store, usecase.WithWorkers(mirrorCfg.Workers())), nil
}
