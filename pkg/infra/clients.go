package infra

import (
	"net/http"

	"github.com/ghmirror/ghmirror/pkg/domain/interfaces"
	"github.com/ghmirror/ghmirror/pkg/infra/gogit"
)

type Clients struct {
	gitHub     interfaces.RepoLister
	git        interfaces.GitClient
	httpClient *http.Client
}

type Option func(*Clients)

func New(options ...Option) *Clients {
	client := &Clients{
		git:        gogit.New(),
		httpClient: http.DefaultClient,
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

func (x *Clients) GitHub() interfaces.RepoLister {
	return x.gitHub
}
func (x *Clients) Git() interfaces.GitClient {
	return x.git
}
func (x *Clients) HTTPClient() *http.Client {
	return x.httpClient
}

func WithGitHub(client interfaces.RepoLister) Option {
	return func(x *Clients) {
		x.gitHub = client
	}
}

func WithGit(client interfaces.GitClient) Option {
	return func(x *Clients) {
		x.git = client
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(x *Clients) {
		x.httpClient = client
	}
}
