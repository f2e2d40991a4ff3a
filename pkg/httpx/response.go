package httpx

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/soapbox/pkg/cryptox"
	"github.com/aussiebroadwan/soapbox/pkg/slogx"
)

// WriteJSON writes a JSON response with the given status code, ignoring
// Accept. Health probes and metrics-adjacent endpoints use it.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Token responses must call this.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// Write renders v in the representation negotiated from the Accept header.
// Successful GET and HEAD responses carry a strong ETag, and a matching
// If-None-Match short-circuits to 304.
func Write(w http.ResponseWriter, r *http.Request, code int, v any) {
	format := Negotiate(r.Header.Get("Accept"))

	body, err := Encode(format, v)
	if err != nil {
		slogx.FromContext(r.Context()).Error("encode response", "err", err, "format", format.String())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Add("Vary", "Accept")

	cacheable := code == http.StatusOK && (r.Method == http.MethodGet || r.Method == http.MethodHead)
	if cacheable {
		etag := `"` + cryptox.Fingerprint(body) + `"`
		h.Set("ETag", etag)
		if h.Get("Cache-Control") == "" {
			h.Set("Cache-Control", "private, no-cache")
		}
		if etagMatch(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	h.Set("Content-Type", format.ContentType())
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

// etagMatch implements the weak comparison If-None-Match asks for.
func etagMatch(header, etag string) bool {
	if header == "" {
		return false
	}
	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
