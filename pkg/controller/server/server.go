package server

import (
	"io"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/ghmirror/ghmirror/pkg/domain/interfaces"
	"github.com/ghmirror/ghmirror/pkg/domain/types"
	"github.com/ghmirror/ghmirror/pkg/utils/logging"
)

type Server struct {
	mux *chi.Mux
}

func safeWrite(w http.ResponseWriter, code int, body []byte) {
	w.WriteHeader(code)

	if _, err := w.Write(body); err != nil {
		logging.Default().Error("fail to write response", slog.Any("error", err))
	}
}

type config struct {
	secret types.WebhookSecret
	audit  *auditLog
}

type Option func(*config)

// WithWebhookSecret enables signature verification of inbound webhook
// requests. Without a secret every request passes authentication.
func WithWebhookSecret(secret types.WebhookSecret) Option {
	return func(cfg *config) {
		cfg.secret = secret
	}
}

// WithAuditWriter records one JSON line per authenticated webhook event to
// w, raw payload included.
func WithAuditWriter(w io.Writer) Option {
	return func(cfg *config) {
		cfg.audit = newAuditLog(w)
	}
}

func New(uc interfaces.UseCase, options ...Option) *Server {
	cfg := &config{}
	for _, opt := range options {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(preProcess)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		safeWrite(w, http.StatusOK, []byte("ok"))
	})
	r.Post("/webhook/github", func(w http.ResponseWriter, r *http.Request) {
		handleGitHubEvent(uc, cfg, w, r)
	})

	return &Server{
		mux: r,
	}
}

func (x *Server) Mux() *chi.Mux {
	return x.mux
}
