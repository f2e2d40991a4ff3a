package httpx

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the client address for audit records. X-Forwarded-For
// and X-Real-IP are only read when trustProxy is set, which is safe only
// behind a proxy that overwrites them. Otherwise it is the peer address.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// X-Forwarded-For is a comma-separated list, client first
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}

		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
