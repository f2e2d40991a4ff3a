package jwtx

import (
	"errors"
	"time"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Issuer signs claims into a compact JWT with the given lifetime.
type Issuer interface {
	Issue(claims Claims, ttl time.Duration) (string, error)
}

// Verify reports exactly one of ErrMalformed, ErrInvalidSig or ErrExpired.
// The rest, ErrNotYetValid included, are wrapped under ErrMalformed by the
// codec.
var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrExpired    = errors.New("jwtx: token expired")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrWeakSecret  = errors.New("jwtx: signing secret too short")
)

// Reason maps a Verify error to the short label used in audit events and
// auth metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrInvalidSig):
		return "invalid_signature"
	case errors.Is(err, ErrNotYetValid):
		return "not_yet_valid"
	default:
		return "malformed"
	}
}
