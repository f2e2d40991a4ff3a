package httpx

import (
	"context"

	"github.com/aussiebroadwan/soapbox/pkg/authz"
	"github.com/aussiebroadwan/soapbox/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyIdentity ctxKey = "identity"
	CtxKeyClaims   ctxKey = "claims"
)

// WithIdentity stores the verified claims and the identity derived from
// them on ctx.
func WithIdentity(ctx context.Context, c jwtx.Claims) context.Context {
	id := c.Identity()
	ctx = context.WithValue(ctx, CtxKeyIdentity, &id)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// IdentityFrom returns the request identity, nil for anonymous requests.
func IdentityFrom(ctx context.Context) *authz.Identity {
	id, _ := ctx.Value(CtxKeyIdentity).(*authz.Identity)
	return id
}

// ClaimsFrom returns the raw token claims of the request.
func ClaimsFrom(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}
