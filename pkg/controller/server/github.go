package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/google/go-github/v53/github"

	"github.com/ghmirror/ghmirror/pkg/domain/interfaces"
	"github.com/ghmirror/ghmirror/pkg/domain/model"
	"github.com/ghmirror/ghmirror/pkg/domain/types"
	"github.com/ghmirror/ghmirror/pkg/utils/logging"
)

// maxPayloadSize matches GitHub's documented cap on webhook payloads. The
// endpoint accepts unauthenticated traffic until the signature check, so
// the body read must be bounded.
const maxPayloadSize = 25 << 20

// handleGitHubEvent ingests one webhook delivery. Acceptance means the job
// is queued, not applied; the periodic sync corrects anything lost after
// the 202 goes out.
func handleGitHubEvent(uc interfaces.UseCase, cfg *config, w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		safeWrite(w, http.StatusUnsupportedMediaType, []byte("payload must be application/json"))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			safeWrite(w, http.StatusRequestEntityTooLarge, []byte("payload too large"))
			return
		}
		safeWrite(w, http.StatusInternalServerError, []byte("failed to read request body"))
		return
	}

	if !authenticate(r, body, cfg.secret) {
		w.Header().Set("WWW-Authenticate", "X-Hub-Signature-256 sha256")
		safeWrite(w, http.StatusUnauthorized, []byte("valid signature required"))
		return
	}

	event := github.WebHookType(r)
	logger := logging.From(r.Context()).With(
		slog.String("event", event),
		slog.String("delivery", github.DeliveryID(r)),
	)

	if cfg.audit != nil {
		cfg.audit.record(r.Context(), event, github.DeliveryID(r), body)
	}

	switch event {
	case "ping":
		logger.Info("webhook ping")
		safeWrite(w, http.StatusOK, []byte("pong"))

	case "push":
		var ev github.PushEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			safeWrite(w, http.StatusBadRequest, []byte("malformed push payload"))
			return
		}
		submitRepoJob(uc, logger, w, types.RepoName(ev.GetRepo().GetFullName()), func(repo types.RepoName) model.Job {
			return model.UpdateMirrorJob{Repo: repo}
		})

	case "repository":
		var ev github.RepositoryEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			safeWrite(w, http.StatusBadRequest, []byte("malformed repository payload"))
			return
		}
		if ev.GetAction() != "deleted" {
			// A companion push event carries the actual work.
			logger.Debug("ignoring repository action", slog.String("action", ev.GetAction()))
			safeWrite(w, http.StatusOK, []byte("ok"))
			return
		}
		submitRepoJob(uc, logger, w, types.RepoName(ev.GetRepo().GetFullName()), func(repo types.RepoName) model.Job {
			return model.DeleteMirrorJob{Repo: repo}
		})

	default:
		logger.Warn("unsupported webhook event")
		safeWrite(w, http.StatusNotImplemented, []byte("event not implemented"))
	}
}

func submitRepoJob(uc interfaces.UseCase, logger *slog.Logger, w http.ResponseWriter, repo types.RepoName, build func(types.RepoName) model.Job) {
	if err := repo.Validate(); err != nil {
		logger.Warn("rejecting event with illegal repository name",
			slog.String("repo", repo.String()),
			slog.Any("error", err),
		)
		safeWrite(w, http.StatusBadRequest, []byte("illegal repository name"))
		return
	}

	job := build(repo)
	if err := uc.Submit(job); err != nil {
		logger.Error("failed to queue job", slog.Any("job", job), slog.Any("error", err))
		safeWrite(w, http.StatusInternalServerError, []byte("failed to queue job"))
		return
	}

	logger.Info("queued job", slog.Any("job", job))
	safeWrite(w, http.StatusAccepted, []byte("Accepted"))
}

// authenticate verifies the HMAC signature over the exact body bytes. With
// no configured secret all requests pass.
func authenticate(r *http.Request, body []byte, secret types.WebhookSecret) bool {
	if secret == "" {
		return true
	}

	signature := r.Header.Get("X-Hub-Signature-256")
	if signature == "" {
		signature = r.Header.Get("X-Hub-Signature")
	}
	if signature == "" {
		return false
	}

	return github.ValidateSignature(signature, body, []byte(secret)) == nil
}
