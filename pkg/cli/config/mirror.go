package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/ghmirror/ghmirror/pkg/domain/interfaces"
	"github.com/ghmirror/ghmirror/pkg/domain/types"
	"github.com/ghmirror/ghmirror/pkg/mirror"
)

type Mirror struct {
	dir     string
	workers int64
}

func (x *Mirror) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "mirror-dir",
			Usage:       "Directory holding the bare mirrors",
			Category:    "Mirror",
			Sources:     cli.EnvVars("GHMIRROR_DIR"),
			Destination: &x.dir,
			Required:    true,
		},
		&cli.Int64Flag{
			Name:        "workers",
			Aliases:     []string{"j"},
			Usage:       "Number of concurrent mirror workers",
			Category:    "Mirror",
			Sources:     cli.EnvVars("GHMIRROR_WORKERS"),
			Destination: &x.workers,
			Value:       2,
		},
	}
}

// NewStore opens the mirror directory. A missing directory is fatal at
// startup; no job manager is constructed in that case.
func (x Mirror) NewStore(git interfaces.GitClient, user types.GitHubUser, token types.GitHubToken) (*mirror.Store, error) {
	return mirror.New(x.dir, git, mirror.WithCredentials(user, token))
}

func (x Mirror) Workers() int {
	return int(x.workers)
}

func (x Mirror) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("Dir", x.dir),
		slog.Int64("Workers", x.workers),
	)
}
