package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ghmirror/ghmirror/pkg/utils/logging"
)

// auditLog appends one JSON line per authenticated webhook delivery. The
// raw payload is kept verbatim so a lost job can be replayed by hand.
type auditLog struct {
	mu sync.Mutex
	w  io.Writer
}

func newAuditLog(w io.Writer) *auditLog {
	return &auditLog{w: w}
}

type auditRecord struct {
	ReceivedAt time.Time       `json:"received_at"`
	Event      string          `json:"event"`
	Delivery   string          `json:"delivery,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

func (x *auditLog) record(ctx context.Context, event, delivery string, payload []byte) {
	line, err := json.Marshal(auditRecord{
		ReceivedAt: logging.CtxTime(ctx),
		Event:      event,
		Delivery:   delivery,
		Payload:    json.RawMessage(payload),
	})
	if err != nil {
		logging.From(ctx).Warn("failed to encode audit record", slog.Any("error", err))
		return
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if _, err := x.w.Write(append(line, '\n')); err != nil {
		logging.From(ctx).Warn("failed to write audit record", slog.Any("error", err))
	}
}
