package domain

import (
	"time"

	"github.com/aussiebroadwan/soapbox/pkg/authz"
)

// TokenPair is what a successful login hands back: both tokens are minted
// from the same identity snapshot.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	Identity         authz.Identity
}

// AccessGrant is the result of a refresh. The refresh token is not rotated.
type AccessGrant struct {
	AccessToken string
	ExpiresAt   time.Time
	TTL         time.Duration
	Identity    authz.Identity
}
