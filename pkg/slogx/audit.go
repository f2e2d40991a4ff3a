package slogx

import (
	"context"
	"io"
	"log/slog"
)

// Audit outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuditEvent is one security-relevant event: a login attempt, a refresh, a
// rejected request and so on.
type AuditEvent struct {
	Action   string // e.g. "login", "refresh", "logout"
	Outcome  string // OutcomeSuccess or OutcomeFailure
	Username string
	UserID   int64
	Source   string // client address
	Reason   string // machine readable, e.g. "bad_password"
}

// AuditLogger writes security events as JSON lines, separate from the
// application log so they can be shipped and retained on their own.
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger writes events to w. Pass an io.MultiWriter to fan out.
func NewAuditLogger(w io.Writer) *AuditLogger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &AuditLogger{logger: slog.New(h).With("log", "security")}
}

// Record writes ev. Failures are logged at warn so they stand out.
func (a *AuditLogger) Record(ctx context.Context, ev AuditEvent) {
	level := slog.LevelInfo
	if ev.Outcome != OutcomeSuccess {
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("action", ev.Action),
		slog.String("outcome", ev.Outcome),
		slog.String("username", ev.Username),
		slog.String("source", ev.Source),
	}
	if ev.UserID != 0 {
		attrs = append(attrs, slog.Int64("user_id", ev.UserID))
	}
	if ev.Reason != "" {
		attrs = append(attrs, slog.String("reason", ev.Reason))
	}
	if id := RequestID(ctx); id != "" {
		attrs = append(attrs, slog.String("req_id", id))
	}

	a.logger.LogAttrs(ctx, level, "security_event", attrs...)
}
