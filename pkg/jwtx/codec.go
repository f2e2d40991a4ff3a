package jwtx

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/soapbox/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the shortest HMAC secret NewCodec accepts.
const MinSecretLen = 32

// Codec issues and verifies HS256 tokens with a single shared secret. It
// holds no mutable state and is safe for concurrent use.
type Codec struct {
	secret []byte
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

var (
	_ Issuer   = (*Codec)(nil)
	_ Verifier = (*Codec)(nil)
)

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithIssuer sets the "iss" claim on issued tokens and requires it on verify.
func WithIssuer(iss string) CodecOption {
	return func(c *Codec) { c.issuer = iss }
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

// NewCodec builds a codec around secret. The secret is copied, later changes
// to the caller's slice have no effect.
func NewCodec(secret []byte, opts ...CodecOption) (*Codec, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrWeakSecret, MinSecretLen, len(secret))
	}

	c := &Codec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	return c, nil
}

// Issue stamps iat/nbf/exp and a fresh jti onto claims and signs them. The
// timestamps are whole seconds, so exp is IssuedAt(now).Add(ttl).
func (c *Codec) Issue(claims Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("jwtx: non-positive ttl %s", ttl)
	}

	now := IssuedAt(c.now())
	claims.Issuer = c.issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.NotBefore = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.ID = idx.NewAt(now).String()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Verify checks the signature over the raw token bytes first, and only then
// decodes and validates the claims. It never returns partial claims.
func (c *Codec) Verify(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrMalformed
	}

	sig, err := base64.RawURLEncoding.Strict().DecodeString(parts[2])
	if err != nil {
		return Claims{}, ErrInvalidSig
	}
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, c.secret); err != nil {
		return Claims{}, ErrInvalidSig
	}

	var claims Claims
	_, err = c.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if claims.ExpiresAt == nil {
		return Claims{}, fmt.Errorf("%w: missing exp", ErrMalformed)
	}

	switch err := claims.ValidateExpiryAt(c.now()); {
	case err == nil:
	case errors.Is(err, ErrExpired):
		return Claims{}, ErrExpired
	default:
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if err := claims.ValidateIssuer(c.issuer); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return claims, nil
}

// IssuedAt is t at the resolution tokens carry: whole seconds.
func IssuedAt(t time.Time) time.Time {
	return t.Truncate(time.Second)
}
