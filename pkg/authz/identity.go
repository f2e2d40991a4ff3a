package authz

import "slices"

// Identity is the authenticated principal recovered from an access token.
// It is a snapshot taken at issuance and is not refreshed from the store.
type Identity struct {
	ID       int64
	Username string
	Role     Role
	Scopes   []Scope
}

// HasScope reports whether the identity holds scope.
func (id Identity) HasScope(scope Scope) bool {
	return slices.Contains(id.Scopes, scope)
}

// HasRole reports whether the identity's role is one of roles. An empty list
// means any role is fine.
func (id Identity) HasRole(roles ...Role) bool {
	if len(roles) == 0 {
		return true
	}
	return slices.Contains(roles, id.Role)
}

// Owns reports whether the identity owns a resource belonging to ownerID.
func (id Identity) Owns(ownerID int64) bool {
	return id.ID != 0 && id.ID == ownerID
}
