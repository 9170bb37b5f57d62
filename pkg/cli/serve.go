package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/urfave/cli/v3"

	"github.com/ghmirror/ghmirror/pkg/cli/config"
	"github.com/ghmirror/ghmirror/pkg/controller/scheduler"
	"github.com/ghmirror/ghmirror/pkg/controller/server"
	"github.com/ghmirror/ghmirror/pkg/utils/logging"
	"github.com/ghmirror/ghmirror/pkg/utils/safe"
)

func serveCommand() *cli.Command {
	var (
		addr string

		mirrorCfg config.Mirror
		githubCfg config.GitHub
		webhook   config.Webhook
		schedule  config.Schedule
		sentry    config.Sentry
	)
	serveFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Binding address",
			Value:       "127.0.0.1:8000",
			Sources:     cli.EnvVars("GHMIRROR_ADDR"),
			Destination: &addr,
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Server mode: webhooks plus periodic reconciliation",
		Flags: slice.Flatten(
			serveFlags,
			mirrorCfg.Flags(),
			githubCfg.Flags(),
			webhook.Flags(),
			schedule.Flags(),
			sentry.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("starting serve",
				slog.Any("Addr", addr),
				slog.Any("Mirror", mirrorCfg),
				slog.Any("GitHub", githubCfg),
				slog.Any("Webhook", webhook),
				slog.Any("Schedule", schedule),
				slog.Any("Sentry", sentry),
			)

			if err := sentry.Configure(ctx); err != nil {
				return err
			}

			uc, err := buildUseCase(&mirrorCfg, &githubCfg)
			if err != nil {
				return err
			}
			defer uc.Shutdown()

			serverOptions := webhook.ServerOptions()
			if w := webhook.NewAuditWriter(); w != nil {
				defer safe.Close(w)
				serverOptions = append(serverOptions, server.WithAuditWriter(w))
			}
			s := server.New(uc, serverOptions...)

			if schedule.Enabled() {
				sched := scheduler.New(uc, schedule.Interval(),
					scheduler.WithOrgs(schedule.Orgs()...),
					scheduler.WithMaxAge(schedule.MaxAge()),
				)
				sched.Start(ctx)
				defer sched.Stop()
			}

			serverErr := make(chan error, 1)
			httpServer := &http.Server{
				Addr:    addr,
				Handler: s.Mux(),

				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
			}

			go func() {
				logging.Default().Info("starting http server", "addr", addr)
				if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
					serverErr <- goerr.Wrap(err, "failed to listen and serve")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-serverErr:
				return err

			case sig := <-quit:
				logging.Default().Info("shutting down server", "signal", sig)

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := httpServer.Shutdown(ctx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server")
				}
			}

			return nil
		},
	}
}
