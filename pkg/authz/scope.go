package authz

import (
	"slices"
	"strings"
)

// Scope is a capability tag of the form "<resource>:<action>".
type Scope string

const (
	ScopePostsRead     Scope = "posts:read"
	ScopePostsWrite    Scope = "posts:write"
	ScopeCommentsRead  Scope = "comments:read"
	ScopeCommentsWrite Scope = "comments:write"
	ScopeProfileRead   Scope = "profile:read"
	ScopeProfileWrite  Scope = "profile:write"
)

// defaultScopes is granted to every authenticated principal. It is never
// mutated after init; callers get copies.
var defaultScopes = []Scope{
	ScopePostsRead,
	ScopePostsWrite,
	ScopeCommentsRead,
	ScopeCommentsWrite,
	ScopeProfileRead,
	ScopeProfileWrite,
}

// DefaultScopes returns a copy of the global default scope set.
func DefaultScopes() []Scope {
	return slices.Clone(defaultScopes)
}

// Known reports whether s is part of the default set.
func (s Scope) Known() bool {
	return slices.Contains(defaultScopes, s)
}

func (s Scope) String() string { return string(s) }

// NormalizeScopes trims, dedupes and drops anything outside the default set,
// keeping input order. An empty result falls back to the default set so a
// token is never issued with no scopes at all.
func NormalizeScopes(in []string) []Scope {
	out := make([]Scope, 0, len(in))
	for _, raw := range in {
		s := Scope(strings.TrimSpace(raw))
		if !s.Known() || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return DefaultScopes()
	}
	return out
}

// Strings converts scopes to their wire form.
func Strings(scopes []Scope) []string {
	out := make([]string, len(scopes))
	for i, s := range scopes {
		out[i] = string(s)
	}
	return out
}
