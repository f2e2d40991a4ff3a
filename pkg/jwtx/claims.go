package jwtx

import (
	"strconv"
	"time"

	"github.com/aussiebroadwan/soapbox/pkg/authz"
	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes. Services may override them through config.
const (
	// DefaultAccessTokenTTL is the lifetime of tokens presented on requests.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the lifetime of tokens exchanged at /refresh-token.
	DefaultRefreshTokenTTL = 24 * time.Hour
)

// Use distinguishes access tokens from refresh tokens so one can never stand
// in for the other.
type Use string

const (
	UseAccess  Use = "access"
	UseRefresh Use = "refresh"
)

// Claims is the token payload. The identity fields are a snapshot taken at
// issuance; nothing re-reads the store on verify.
type Claims struct {
	jwt.RegisteredClaims

	// Numeric account id, also mirrored as the string "sub".
	UserID int64 `json:"id"`

	Username string `json:"username"`

	// "user" or "admin"
	Role string `json:"role"`

	// Capability tags, e.g. "posts:write"
	Scopes []string `json:"scopes,omitempty"`

	Use Use `json:"use"`
}

// NewClaims builds the custom part of the claims from an identity. The
// registered time claims are filled in by Codec.Issue.
func NewClaims(id authz.Identity, use Use) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatInt(id.ID, 10),
		},
		UserID:   id.ID,
		Username: id.Username,
		Role:     string(id.Role),
		Scopes:   authz.Strings(id.Scopes),
		Use:      use,
	}
}

// Identity converts the claims back into an identity. Scopes are normalized,
// so a token carrying none gets the default set. Unknown roles come back as
// the zero Role, which no role check admits.
func (c Claims) Identity() authz.Identity {
	role, _ := authz.ParseRole(c.Role)
	return authz.Identity{
		ID:       c.UserID,
		Username: c.Username,
		Role:     role,
		Scopes:   authz.NormalizeScopes(c.Scopes),
	}
}

// IsAccess reports whether the token may be used to call the API.
func (c Claims) IsAccess() bool { return c.Use == UseAccess }

// IsRefresh reports whether the token may be exchanged for an access token.
func (c Claims) IsRefresh() bool { return c.Use == UseRefresh }

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiryAt checks exp and nbf against now. A token is already expired
// at the exact instant of exp.
func (c *Claims) ValidateExpiryAt(now time.Time) error {
	if c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
