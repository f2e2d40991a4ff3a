package metrics

import (
	"net/http"
	"strconv"
	"time"
)

// RouteResolver maps a request to its route pattern, e.g. "GET /posts/{id}",
// so label cardinality stays bounded.
type RouteResolver func(*http.Request) string

// HTTPMiddleware records request count, latency and in-flight requests.
func HTTPMiddleware(m Recorder, resolve RouteResolver) func(http.Handler) http.Handler {
	// If NoopMetrics, return a lightweight middleware that does nothing
	if _, ok := m.(*NoopMetrics); ok {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip metrics endpoint to avoid self-recording
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			route := normalizeRoute(resolve(r))
			start := time.Now()

			m.HTTPInFlight(1)
			defer m.HTTPInFlight(-1)

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			m.RecordHTTPRequest(r.Method, route, sw.status, time.Since(start))
		})
	}
}

// normalizeRoute returns the route pattern or "unmatched".
func normalizeRoute(pattern string) string {
	if pattern == "" {
		return "unmatched"
	}
	return pattern
}

func statusLabel(code int) string {
	return strconv.Itoa(code)
}

type statusWriter struct {
	http.ResponseWriter

	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
