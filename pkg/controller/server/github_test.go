package server_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/ghmirror/ghmirror/pkg/controller/server"
	"github.com/ghmirror/ghmirror/pkg/domain/mock"
	"github.com/ghmirror/ghmirror/pkg/domain/model"
)

func signSHA256(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func pushPayload(fullName string) []byte {
	body, _ := json.Marshal(map[string]any{
		"ref": "refs/heads/main",
		"repository": map[string]any{
			"full_name": fullName,
		},
	})
	return body
}

func repositoryPayload(fullName, action string) []byte {
	body, _ := json.Marshal(map[string]any{
		"action": action,
		"repository": map[string]any{
			"full_name": fullName,
		},
	})
	return body
}

func postWebhook(t *testing.T, srv *server.Server, event string, body []byte, modify func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook/github", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", event)
	req.Header.Set("X-GitHub-Delivery", "72d3162e-cc78-11e3-81ab-4c9367dc0958")
	if modify != nil {
		modify(req)
	}

	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)
	return rec
}

func TestContentType(t *testing.T) {
	uc := &mock.UseCaseMock{}
	srv := server.New(uc)

	rec := postWebhook(t, srv, "push", pushPayload("org/repo"), func(r *http.Request) {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	})
	gt.V(t, rec.Code).Equal(http.StatusUnsupportedMediaType)
	gt.A(t, uc.SubmitCalls()).Length(0)
}

func TestOversizedPayload(t *testing.T) {
	uc := &mock.UseCaseMock{}
	srv := server.New(uc)

	body := bytes.Repeat([]byte("x"), 25<<20+1)
	rec := postWebhook(t, srv, "push", body, nil)
	gt.V(t, rec.Code).Equal(http.StatusRequestEntityTooLarge)
	gt.A(t, uc.SubmitCalls()).Length(0)
}

func TestAuthentication(t *testing.T) {
	const secret = "my-webhook-secret"
	body := pushPayload("org/repo")

	t.Run("correct signature accepted", func(t *testing.T) {
		uc := &mock.UseCaseMock{}
		srv := server.New(uc, server.WithWebhookSecret(secret))

		rec := postWebhook(t, srv, "push", body, func(r *http.Request) {
			r.Header.Set("X-Hub-Signature-256", signSHA256(secret, body))
		})
		gt.V(t, rec.Code).Equal(http.StatusAccepted)
		gt.A(t, uc.SubmitCalls()).Length(1)
	})

	t.Run("wrong signature rejected", func(t *testing.T) {
		uc := &mock.UseCaseMock{}
		srv := server.New(uc, server.WithWebhookSecret(secret))

		rec := postWebhook(t, srv, "push", body, func(r *http.Request) {
			r.Header.Set("X-Hub-Signature-256", signSHA256("wrong-secret", body))
		})
		gt.V(t, rec.Code).Equal(http.StatusUnauthorized)
		gt.V(t, rec.Header().Get("WWW-Authenticate")).NotEqual("")
		gt.A(t, uc.SubmitCalls()).Length(0)
	})

	t.Run("missing signature rejected", func(t *testing.T) {
		uc := &mock.UseCaseMock{}
		srv := server.New(uc, server.WithWebhookSecret(secret))

		rec := postWebhook(t, srv, "push", body, nil)
		gt.V(t, rec.Code).Equal(http.StatusUnauthorized)
		gt.A(t, uc.SubmitCalls()).Length(0)
	})

	t.Run("no secret configured accepts anything", func(t *testing.T) {
		uc := &mock.UseCaseMock{}
		srv := server.New(uc)

		rec := postWebhook(t, srv, "push", body, func(r *http.Request) {
			r.Header.Set("X-Hub-Signature-256", "sha256=garbage")
		})
		gt.V(t, rec.Code).Equal(http.StatusAccepted)
		gt.A(t, uc.SubmitCalls()).Length(1)
	})
}

func TestDispatch(t *testing.T) {
	t.Run("ping returns pong without job", func(t *testing.T) {
		uc := &mock.UseCaseMock{}
		srv := server.New(uc)

		rec := postWebhook(t, srv, "ping", []byte(`{"zen":"Keep it logically awesome."}`), nil)
		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.V(t, rec.Body.String()).Equal("pong")
		gt.A(t, uc.SubmitCalls()).Length(0)
	})

	t.Run("push queues one update job", func(t *testing.T) {
		uc := &mock.UseCaseMock{}
		srv := server.New(uc)

		rec := postWebhook(t, srv, "push", pushPayload("my-org/my-repo"), nil)
		gt.V(t, rec.Code).Equal(http.StatusAccepted)
		gt.A(t, uc.SubmitCalls()).Equal([]model.Job{
			model.UpdateMirrorJob{Repo: "my-org/my-repo"},
		})
	})

	t.Run("repository deleted queues one delete job", func(t *testing.T) {
		uc := &mock.UseCaseMock{}
		srv := server.New(uc)

		rec := postWebhook(t, srv, "repository", repositoryPayload("my-org/my-repo", "deleted"), nil)
		gt.V(t, rec.Code).Equal(http.StatusAccepted)
		gt.A(t, uc.SubmitCalls()).Equal([]model.Job{
			model.DeleteMirrorJob{Repo: "my-org/my-repo"},
		})
	})

	t.Run("repository renamed is acknowledged without job", func(t *testing.T) {
		uc := &mock.UseCaseMock{}
		srv := server.New(uc)

		rec := postWebhook(t, srv, "repository", repositoryPayload("my-org/my-repo", "renamed"), nil)
		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.A(t, uc.SubmitCalls()).Length(0)
	})

	t.Run("unknown event is not implemented", func(t *testing.T) {
		uc := &mock.UseCaseMock{}
		srv := server.New(uc)

		rec := postWebhook(t, srv, "star", []byte(`{}`), nil)
		gt.V(t, rec.Code).Equal(http.StatusNotImplemented)
		gt.A(t, uc.SubmitCalls()).Length(0)
	})

	t.Run("push with illegal repository name is rejected", func(t *testing.T) {
		uc := &mock.UseCaseMock{}
		srv := server.New(uc)

		rec := postWebhook(t, srv, "push", pushPayload("../../etc/passwd"), nil)
		gt.V(t, rec.Code).Equal(http.StatusBadRequest)
		gt.A(t, uc.SubmitCalls()).Length(0)
	})
}

func TestAuditLog(t *testing.T) {
	var buf bytes.Buffer
	uc := &mock.UseCaseMock{}
	srv := server.New(uc, server.WithAuditWriter(&buf))

	rec := postWebhook(t, srv, "push", pushPayload("my-org/my-repo"), nil)
	gt.V(t, rec.Code).Equal(http.StatusAccepted)

	var record struct {
		Event    string          `json:"event"`
		Delivery string          `json:"delivery"`
		Payload  json.RawMessage `json:"payload"`
	}
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	gt.V(t, record.Event).Equal("push")
	gt.V(t, record.Delivery).Equal("72d3162e-cc78-11e3-81ab-4c9367dc0958")
	gt.True(t, len(record.Payload) > 0)
}

func TestHealth(t *testing.T) {
	srv := server.New(&mock.UseCaseMock{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)

	gt.V(t, rec.Code).Equal(http.StatusOK)
}
