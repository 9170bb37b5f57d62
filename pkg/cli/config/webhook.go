package config

import (
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ghmirror/ghmirror/pkg/controller/server"
	"github.com/ghmirror/ghmirror/pkg/domain/types"
)

type Webhook struct {
	secret    types.WebhookSecret `masq:"secret"`
	auditPath string
}

func (x *Webhook) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "webhook-secret",
			Usage:       "Shared secret for webhook signature verification",
			Category:    "Webhook",
			Sources:     cli.EnvVars("GHMIRROR_WEBHOOK_SECRET"),
			Destination: (*string)(&x.secret),
		},
		&cli.StringFlag{
			Name:        "audit-log",
			Usage:       "File to append one JSON line per webhook event, rotated automatically",
			Category:    "Webhook",
			Sources:     cli.EnvVars("GHMIRROR_AUDIT_LOG"),
			Destination: &x.auditPath,
		},
	}
}

func (x Webhook) ServerOptions() []server.Option {
	var options []server.Option
	if x.secret != "" {
		options = append(options, server.WithWebhookSecret(x.secret))
	}
	return options
}

// NewAuditWriter returns the rotating audit log writer, or nil when no
// audit log is configured. The caller owns closing it.
func (x Webhook) NewAuditWriter() io.WriteCloser {
	if x.auditPath == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   x.auditPath,
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
}

func (x Webhook) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("Secret.len", len(x.secret)),
		slog.String("AuditLog", x.auditPath),
	)
}
