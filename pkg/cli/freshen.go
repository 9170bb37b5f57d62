package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/gots/slice"
	"github.com/urfave/cli/v3"

	"github.com/ghmirror/ghmirror/pkg/cli/config"
	"github.com/ghmirror/ghmirror/pkg/domain/model"
)

func freshenCommand() *cli.Command {
	var (
		mirrorCfg config.Mirror
		githubCfg config.GitHub
		olderThan time.Duration
	)

	return &cli.Command{
		Name:  "freshen",
		Usage: "Update every mirror that has not been fetched recently",
		Flags: slice.Flatten([]cli.Flag{
			&cli.DurationFlag{
				Name:        "older-than",
				Usage:       "Only update mirrors last fetched before this duration ago",
				Sources:     cli.EnvVars("GHMIRROR_OLDER_THAN"),
				Destination: &olderThan,
				Value:       24 * time.Hour,
			},
		}, mirrorCfg.Flags(), githubCfg.Flags()),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := buildUseCase(&mirrorCfg, &githubCfg)
			if err != nil {
				return err
			}
			defer uc.Shutdown()

			if err := uc.Submit(model.UpdateStaleJob{OlderThan: olderThan}); err != nil {
				return err
			}

			uc.WaitIdle()
			return nil
		},
	}
}
