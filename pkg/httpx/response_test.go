package httpx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/soapbox/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"bad request", httpx.BadRequest("Username and password are required"), http.StatusBadRequest, "Username and password are required"},
		{"unauthorized", httpx.Unauthorized("Invalid token"), http.StatusUnauthorized, "Invalid token"},
		{"forbidden", httpx.Forbidden("nope"), http.StatusForbidden, "nope"},
		{"conflict", httpx.Conflict("Username or email already in use"), http.StatusConflict, "Username or email already in use"},
		{"plain error hidden", errors.New("sql: connection refused on 10.0.0.3"), http.StatusInternalServerError, "Internal server error"},
		{"wrapped http error", errors.Join(errors.New("ctx"), httpx.NotFound("Post not found")), http.StatusNotFound, "Post not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			httpx.WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			require.Equal(t, tt.status, rec.Code)
			var body httpx.ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tt.message, body.Error)
			require.Equal(t, httpx.Link{Href: "/", Method: "GET"}, body.Links["home"])
			require.Equal(t, httpx.Link{Href: "/login", Method: "POST"}, body.Links["login"])
			require.NotContains(t, rec.Body.String(), "10.0.0.3")
		})
	}
}

func TestCookies(t *testing.T) {
	cfg := httpx.CookieConfig{Secure: true}

	rec := httptest.NewRecorder()
	cfg.SetToken(rec, httpx.AccessTokenCookie, "tok", 15*time.Minute)
	cfg.Clear(rec, httpx.RefreshTokenCookie)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	set := cookies[0]
	require.Equal(t, httpx.AccessTokenCookie, set.Name)
	require.Equal(t, "tok", set.Value)
	require.Equal(t, 900, set.MaxAge)
	require.True(t, set.HttpOnly)
	require.True(t, set.Secure)
	require.Equal(t, http.SameSiteStrictMode, set.SameSite)
	require.Equal(t, "/", set.Path)

	cleared := cookies[1]
	require.Equal(t, httpx.RefreshTokenCookie, cleared.Name)
	require.Empty(t, cleared.Value)
	require.Negative(t, cleared.MaxAge)
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	h := httpx.CORS([]string{"http://localhost:3001"})(next)

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		req.Header.Set("Origin", "http://localhost:3001")
		rec := serve(h, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "http://localhost:3001", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		req.Header.Set("Origin", "http://evil.test")
		rec := serve(h, req)
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/user/posts", nil)
		req.Header.Set("Origin", "http://localhost:3001")
		rec := serve(h, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	})

	t.Run("wildcard echoes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://anything.test")
		rec := serve(httpx.CORS([]string{"*"})(next), req)
		require.Equal(t, "http://anything.test", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestDecodeJSON(t *testing.T) {
	type in struct {
		Username string `json:"username"`
	}

	decode := func(body string) (in, error) {
		var dst in
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		err := httpx.DecodeJSON(httptest.NewRecorder(), req, &dst)
		return dst, err
	}

	got, err := decode(`{"username":"alice"}`)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)

	got, err = decode(``)
	require.NoError(t, err)
	require.Empty(t, got.Username)

	_, err = decode(`{"username":"alice","admin":true}`)
	var he *httpx.Error
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusBadRequest, he.Status)
	require.Equal(t, `"admin" is not allowed`, he.Message)

	_, err = decode(`{"username":`)
	require.ErrorAs(t, err, &he)
	require.Equal(t, "Invalid request body", he.Message)

	_, err = decode(`{} {}`)
	require.ErrorAs(t, err, &he)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	require.Equal(t, "192.0.2.1", httpx.ClientIP(req, false))
	require.Equal(t, "192.0.2.1", httpx.ClientIP(req, true))

	req.Header.Set("X-Real-IP", "198.51.100.2")
	require.Equal(t, "198.51.100.2", httpx.ClientIP(req, true))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	require.Equal(t, "203.0.113.9", httpx.ClientIP(req, true))
}

func TestClientIPIgnoresForwardingHeadersByDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	req.Header.Set("X-Real-IP", "198.51.100.2")

	require.Equal(t, "192.0.2.1", httpx.ClientIP(req, false))
}
