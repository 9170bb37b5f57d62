package config

import (
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/ghmirror/ghmirror/pkg/domain/types"
)

type Schedule struct {
	orgs      []string
	interval  time.Duration
	olderThan time.Duration
}

func (x *Schedule) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "sync-org",
			Usage:       "Organization to keep fully mirrored, repeatable",
			Category:    "Schedule",
			Sources:     cli.EnvVars("GHMIRROR_SYNC_ORG"),
			Destination: &x.orgs,
		},
		&cli.DurationFlag{
			Name:        "sync-interval",
			Usage:       "Interval between reconciliation ticks",
			Category:    "Schedule",
			Sources:     cli.EnvVars("GHMIRROR_SYNC_INTERVAL"),
			Destination: &x.interval,
			Value:       time.Hour,
		},
		&cli.DurationFlag{
			Name:        "freshen-older-than",
			Usage:       "Re-update mirrors not fetched within this duration, 0 to disable",
			Category:    "Schedule",
			Sources:     cli.EnvVars("GHMIRROR_FRESHEN_OLDER_THAN"),
			Destination: &x.olderThan,
			Value:       24 * time.Hour,
		},
	}
}

// Enabled reports whether the periodic reconciliation loop should run at
// all. Without target organizations a tick would have nothing to do.
func (x Schedule) Enabled() bool {
	return len(x.orgs) > 0
}

func (x Schedule) Orgs() []types.OrgName {
	orgs := make([]types.OrgName, 0, len(x.orgs))
	for _, org := range x.orgs {
		orgs = append(orgs, types.OrgName(org))
	}
	return orgs
}

func (x Schedule) Interval() time.Duration {
	return x.interval
}

func (x Schedule) MaxAge() time.Duration {
	return x.olderThan
}

func (x Schedule) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("Orgs", x.orgs),
		slog.Duration("Interval", x.interval),
		slog.Duration("OlderThan", x.olderThan),
	)
}
