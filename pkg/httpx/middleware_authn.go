package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/soapbox/pkg/jwtx"
)

// Gate stage names.
const (
	StageAuthenticate = "authenticate"
	StageScope        = "scope"
	StageRole         = "role"
)

// AuthenticationMessage is what clients see on a 401 from the gate.
const AuthenticationMessage = "Authentication Error"

// Authenticate verifies the access token from the Authorization header, or
// failing that the access_token cookie, and puts the identity on the
// request. Paths starting with one of the exempt prefixes pass even without
// a valid token; they still get an identity when one is presented.
func Authenticate(v jwtx.Verifier, exempt ...string) Stage {
	return func(r *http.Request) (*http.Request, error) {
		reason := "missing_token"

		if raw := BearerToken(r); raw != "" {
			claims, err := v.Verify(raw)
			switch {
			case err != nil:
				reason = jwtx.Reason(err)
			case !claims.IsAccess():
				reason = "wrong_token_use"
			default:
				return r.WithContext(WithIdentity(r.Context(), claims)), nil
			}
		}

		if IsExempt(r.URL.Path, exempt) {
			return r, nil
		}

		return nil, &Rejection{
			Stage:     StageAuthenticate,
			Status:    http.StatusUnauthorized,
			Reason:    reason,
			Message:   AuthenticationMessage,
			Challenge: `Bearer error="invalid_token"`,
		}
	}
}

// BearerToken returns the access token presented with r, header first.
func BearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// IsExempt reports whether path falls under one of the prefixes.
func IsExempt(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
