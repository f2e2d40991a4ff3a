package authz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthenticated means no valid identity was presented.
	ErrUnauthenticated = errors.New("authz: unauthenticated")

	// ErrForbidden means an identity was present but lacks the grant.
	ErrForbidden = errors.New("authz: forbidden")
)

// Decision is the outcome of evaluating a single authorization rule. It is
// computed per request and never stored.
type Decision struct {
	Authenticated bool
	Identity      Identity
	Allowed       bool
	Reason        string
}

// Err converts a denied decision into ErrUnauthenticated or ErrForbidden,
// wrapped with the reason. Allowed decisions return nil.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case !d.Authenticated:
		return fmt.Errorf("%w: %s", ErrUnauthenticated, d.Reason)
	default:
		return fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}
}

func allow(id Identity) Decision {
	return Decision{Authenticated: true, Identity: id, Allowed: true}
}

func deny(id *Identity, reason string) Decision {
	if id == nil {
		return Decision{Reason: reason}
	}
	return Decision{Authenticated: true, Identity: *id, Reason: reason}
}

// RequireScope allows an identity holding scope.
func RequireScope(id *Identity, scope Scope) Decision {
	if id == nil {
		return deny(nil, "no identity")
	}
	if !id.HasScope(scope) {
		return deny(id, "missing scope "+string(scope))
	}
	return allow(*id)
}

// RequireRole allows an identity whose role is one of roles. No roles means
// any authenticated identity.
func RequireRole(id *Identity, roles ...Role) Decision {
	if id == nil {
		return deny(nil, "no identity")
	}
	if !id.HasRole(roles...) {
		names := make([]string, len(roles))
		for i, r := range roles {
			names[i] = string(r)
		}
		return deny(id, "role "+string(id.Role)+" not in ["+strings.Join(names, ",")+"]")
	}
	return allow(*id)
}

// RequireOwnership allows the owner of a resource, or any admin.
func RequireOwnership(id *Identity, ownerID int64) Decision {
	if id == nil {
		return deny(nil, "no identity")
	}
	if id.Role.IsAdmin() || id.Owns(ownerID) {
		return allow(*id)
	}
	return deny(id, "not the owner")
}
