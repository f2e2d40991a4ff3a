package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/soapbox/internal/api/domain"
	"github.com/aussiebroadwan/soapbox/internal/api/store"
	"github.com/aussiebroadwan/soapbox/internal/metrics"
	"github.com/aussiebroadwan/soapbox/pkg/authz"
	"github.com/aussiebroadwan/soapbox/pkg/jwtx"
	"github.com/aussiebroadwan/soapbox/pkg/slogx"
)

// Audit actions.
const (
	ActionLogin   = "login"
	ActionRefresh = "refresh"
	ActionLogout  = "logout"
)

// CredentialStore looks up the user record behind a login attempt.
type CredentialStore interface {
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
}

// passwordUpdater is implemented by stores that can persist a rehashed
// password. Login upgrades legacy digests when it is available.
type passwordUpdater interface {
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// PasswordVerifier checks a plaintext password against a stored digest.
type PasswordVerifier interface {
	Verify(password, encodedHash string) error
}

// rehasher is implemented by verifiers that know when a digest is outdated.
type rehasher interface {
	NeedsRehash(encodedHash string) bool
	Hash(password string) (string, error)
}

// Auditor receives one security event per login, refresh and logout.
type Auditor interface {
	Record(ctx context.Context, ev slogx.AuditEvent)
}

// TokenCodec issues and verifies the signed tokens.
type TokenCodec interface {
	jwtx.Issuer
	jwtx.Verifier
}

type LoginInput struct {
	Username string
	Password string
	Source   string // client address, for the audit trail
}

type SessionService struct {
	Credentials CredentialStore
	Passwords   PasswordVerifier
	Tokens      TokenCodec
	Audit       Auditor
	Metrics     metrics.Recorder

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now defaults to time.Now. It must agree with the codec's clock.
	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *SessionService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

func (s *SessionService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

func (s *SessionService) recorder() metrics.Recorder {
	if s.Metrics == nil {
		return metrics.NewNoopMetrics()
	}
	return s.Metrics
}

func (s *SessionService) audit(ctx context.Context, ev slogx.AuditEvent) {
	if s.Audit != nil {
		s.Audit.Record(ctx, ev)
	}
}

// Login checks the credentials and issues an access and a refresh token
// minted from the same identity snapshot.
func (s *SessionService) Login(ctx context.Context, in LoginInput) (*domain.TokenPair, error) {
	start := time.Now()
	log := slogx.FromContext(ctx)

	ev := slogx.AuditEvent{
		Action:   ActionLogin,
		Outcome:  slogx.OutcomeFailure,
		Username: strings.TrimSpace(in.Username),
		Source:   in.Source,
	}
	fail := func(reason string, err error) (*domain.TokenPair, error) {
		ev.Reason = reason
		s.audit(ctx, ev)
		s.recorder().RecordLogin(reason, time.Since(start))
		return nil, err
	}

	if ev.Username == "" || in.Password == "" {
		return fail("missing_credentials", ErrMissingCredentials)
	}

	u, err := s.Credentials.GetUserByUsername(ctx, ev.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail("not_found", ErrUserNotFound)
		}
		log.Error("login lookup failed", slog.String("username", ev.Username), slog.Any("error", err))
		return fail("store_error", fmt.Errorf("lookup user: %w", err))
	}
	ev.UserID = u.ID

	if err := s.Passwords.Verify(in.Password, u.PasswordHash); err != nil {
		return fail("bad_password", ErrInvalidCredentials)
	}

	s.upgradeHash(ctx, u, in.Password)

	identity := u.Identity()
	now := jwtx.IssuedAt(s.now())

	access, err := s.Tokens.Issue(jwtx.NewClaims(identity, jwtx.UseAccess), s.accessTTL())
	if err != nil {
		log.Error("failed to issue access token", slog.Any("error", err))
		return fail("token_error", fmt.Errorf("issue access token: %w", err))
	}
	refresh, err := s.Tokens.Issue(jwtx.NewClaims(identity, jwtx.UseRefresh), s.refreshTTL())
	if err != nil {
		log.Error("failed to issue refresh token", slog.Any("error", err))
		return fail("token_error", fmt.Errorf("issue refresh token: %w", err))
	}

	ev.Outcome = slogx.OutcomeSuccess
	s.audit(ctx, ev)
	s.recorder().RecordLogin(slogx.OutcomeSuccess, time.Since(start))
	s.recorder().RecordTokenIssued(string(jwtx.UseAccess))
	s.recorder().RecordTokenIssued(string(jwtx.UseRefresh))

	return &domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  now.Add(s.accessTTL()),
		RefreshExpiresAt: now.Add(s.refreshTTL()),
		AccessTTL:        s.accessTTL(),
		RefreshTTL:       s.refreshTTL(),
		Identity:         identity,
	}, nil
}

// upgradeHash rewrites a legacy digest after a successful login. Failures
// are logged and otherwise ignored.
func (s *SessionService) upgradeHash(ctx context.Context, u domain.User, password string) {
	rh, ok := s.Passwords.(rehasher)
	if !ok || !rh.NeedsRehash(u.PasswordHash) {
		return
	}
	updater, ok := s.Credentials.(passwordUpdater)
	if !ok {
		return
	}

	log := slogx.FromContext(ctx)
	hash, err := rh.Hash(password)
	if err != nil {
		log.Warn("password rehash failed", slog.Int64("user_id", u.ID), slog.Any("error", err))
		return
	}
	if err := updater.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		log.Warn("password rehash not saved", slog.Int64("user_id", u.ID), slog.Any("error", err))
		return
	}
	log.Info("upgraded legacy password hash", slog.Int64("user_id", u.ID))
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself is not rotated.
func (s *SessionService) Refresh(ctx context.Context, refreshToken, source string) (*domain.AccessGrant, error) {
	log := slogx.FromContext(ctx)

	ev := slogx.AuditEvent{
		Action:  ActionRefresh,
		Outcome: slogx.OutcomeFailure,
		Source:  source,
	}
	fail := func(reason string, err error) (*domain.AccessGrant, error) {
		ev.Reason = reason
		s.audit(ctx, ev)
		s.recorder().RecordTokenRefresh(false)
		return nil, err
	}

	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return fail("missing_token", ErrMissingToken)
	}

	claims, err := s.Tokens.Verify(refreshToken)
	if err != nil {
		log.Debug("refresh token rejected", slog.Any("error", err))
		return fail(jwtx.Reason(err), ErrInvalidToken)
	}
	ev.Username = claims.Username
	ev.UserID = claims.UserID

	if !claims.IsRefresh() {
		return fail("wrong_token_use", ErrInvalidToken)
	}

	identity := claims.Identity()
	now := jwtx.IssuedAt(s.now())

	access, err := s.Tokens.Issue(jwtx.NewClaims(identity, jwtx.UseAccess), s.accessTTL())
	if err != nil {
		log.Error("failed to issue access token", slog.Any("error", err))
		return fail("token_error", fmt.Errorf("issue access token: %w", err))
	}

	ev.Outcome = slogx.OutcomeSuccess
	s.audit(ctx, ev)
	s.recorder().RecordTokenRefresh(true)
	s.recorder().RecordTokenIssued(string(jwtx.UseAccess))

	return &domain.AccessGrant{
		AccessToken: access,
		ExpiresAt:   now.Add(s.accessTTL()),
		TTL:         s.accessTTL(),
		Identity:    identity,
	}, nil
}

// Logout is stateless: tokens stay valid until they expire and the HTTP
// layer clears the cookies. It only records the event.
func (s *SessionService) Logout(ctx context.Context, id *authz.Identity, source string) {
	ev := slogx.AuditEvent{
		Action:  ActionLogout,
		Outcome: slogx.OutcomeSuccess,
		Source:  source,
	}
	if id != nil {
		ev.Username = id.Username
		ev.UserID = id.ID
	}
	s.audit(ctx, ev)
}
