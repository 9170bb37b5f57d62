package cli

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/urfave/cli/v3"

	"github.com/ghmirror/ghmirror/pkg/cli/config"
	"github.com/ghmirror/ghmirror/pkg/domain/model"
	"github.com/ghmirror/ghmirror/pkg/domain/types"
)

func fetchCommand() *cli.Command {
	var (
		mirrorCfg config.Mirror
		githubCfg config.GitHub
	)

	return &cli.Command{
		Name:      "fetch",
		Usage:     "Update mirrors of the given repositories, creating them if needed",
		ArgsUsage: "OWNER/REPO... | ORG/*...",
		Flags: slice.Flatten(
			mirrorCfg.Flags(),
			githubCfg.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			args := c.Args().Slice()
			if len(args) == 0 {
				return goerr.New("at least one OWNER/REPO or ORG/* argument is required")
			}

			uc, err := buildUseCase(&mirrorCfg, &githubCfg)
			if err != nil {
				return err
			}
			defer uc.Shutdown()

			for _, arg := range args {
				if org, ok := strings.CutSuffix(arg, "/*"); ok {
					if err := uc.GrowOrg(ctx, types.OrgName(org)); err != nil {
						return err
					}
					continue
				}

				repo := types.RepoName(arg)
				if err := repo.Validate(); err != nil {
					return err
				}
				if err := uc.Submit(model.UpdateMirrorJob{Repo: repo}); err != nil {
					return err
				}
			}

			uc.WaitIdle()
			return nil
		},
	}
}
