package httpx

import (
	"net/http"

	"github.com/aussiebroadwan/soapbox/pkg/authz"
)

// Client-facing rejection messages.
const (
	ScopeMessage = "Forbidden: insufficient scope"
	RoleMessage  = "Forbidden: not authorised"
)

// RequireScope rejects with 403 unless the request identity holds scope.
func RequireScope(scope authz.Scope) Stage {
	return func(r *http.Request) (*http.Request, error) {
		d := authz.RequireScope(IdentityFrom(r.Context()), scope)
		if d.Allowed {
			return r, nil
		}
		// RFC 6750 insufficient_scope
		return nil, &Rejection{
			Stage:     StageScope,
			Status:    http.StatusForbidden,
			Reason:    d.Reason,
			Message:   ScopeMessage,
			Challenge: `Bearer error="insufficient_scope", scope="` + string(scope) + `"`,
		}
	}
}

// RequireRole rejects with 403 unless the identity has one of roles. With no
// roles any identity passes, but an anonymous request never does.
func RequireRole(roles ...authz.Role) Stage {
	return func(r *http.Request) (*http.Request, error) {
		d := authz.RequireRole(IdentityFrom(r.Context()), roles...)
		if d.Allowed {
			return r, nil
		}
		return nil, &Rejection{
			Stage:   StageRole,
			Status:  http.StatusForbidden,
			Reason:  d.Reason,
			Message: RoleMessage,
		}
	}
}
