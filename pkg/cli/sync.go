package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/urfave/cli/v3"

	"github.com/ghmirror/ghmirror/pkg/cli/config"
	"github.com/ghmirror/ghmirror/pkg/domain/model"
	"github.com/ghmirror/ghmirror/pkg/domain/types"
)

func syncCommand() *cli.Command {
	var (
		mirrorCfg config.Mirror
		githubCfg config.GitHub
	)

	return &cli.Command{
		Name:      "sync",
		Usage:     "Reconcile mirrors of the given organizations with GitHub",
		ArgsUsage: "ORG...",
		Flags: slice.Flatten(
			mirrorCfg.Flags(),
			githubCfg.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			args := c.Args().Slice()
			if len(args) == 0 {
				return goerr.New("at least one ORG argument is required")
			}

			uc, err := buildUseCase(&mirrorCfg, &githubCfg)
			if err != nil {
				return err
			}
			defer uc.Shutdown()

			for _, arg := range args {
				org := types.OrgName(arg)
				if err := org.Validate(); err != nil {
					return err
				}
				if err := uc.Submit(model.SyncOrgJob{Org: org}); err != nil {
					return err
				}
			}

			uc.WaitIdle()
			return nil
		},
	}
}
