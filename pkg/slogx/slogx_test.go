package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/soapbox/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, slogx.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, slogx.ParseLevel("warning"))
	require.Equal(t, slog.LevelError, slogx.ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, slogx.ParseLevel("nonsense"))
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var seen string
	h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = slogx.RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generates request id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts", nil))

		require.NotEmpty(t, seen)
		require.Equal(t, seen, rec.Header().Get(slogx.RequestIDHeader))

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		require.Equal(t, "http_request", line["msg"])
		require.Equal(t, float64(http.StatusTeapot), line["status"])
		require.Equal(t, seen, line["req_id"])
	})

	t.Run("propagates caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		req.Header.Set(slogx.RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, "abc-123", seen)
		require.Equal(t, "abc-123", rec.Header().Get(slogx.RequestIDHeader))
	})
}

func TestAuditLogger(t *testing.T) {
	var buf bytes.Buffer
	audit := slogx.NewAuditLogger(&buf)

	ctx := slogx.WithRequestID(context.Background(), "req-1")
	audit.Record(ctx, slogx.AuditEvent{
		Action:   "login",
		Outcome:  slogx.OutcomeFailure,
		Username: "mallory",
		Source:   "10.0.0.1",
		Reason:   "bad_password",
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "security_event", line["msg"])
	require.Equal(t, "WARN", line["level"])
	require.Equal(t, "login", line["action"])
	require.Equal(t, "mallory", line["username"])
	require.Equal(t, "bad_password", line["reason"])
	require.Equal(t, "req-1", line["req_id"])
	require.NotContains(t, line, "user_id")
}
