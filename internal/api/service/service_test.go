package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/soapbox/internal/api/domain"
	"github.com/aussiebroadwan/soapbox/internal/api/store/drivers/sqlite"
	"github.com/aussiebroadwan/soapbox/pkg/cryptox"
	"github.com/aussiebroadwan/soapbox/pkg/jwtx"
	"github.com/aussiebroadwan/soapbox/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []slogx.AuditEvent
}

func (a *recordingAuditor) Record(_ context.Context, ev slogx.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *recordingAuditor) last(t *testing.T) slogx.AuditEvent {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	require.NotEmpty(t, a.events)
	return a.events[len(a.events)-1]
}

func (a *recordingAuditor) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.events)
}

type fixture struct {
	store    *sqlite.Store
	hasher   *cryptox.PasswordHasher
	codec    *jwtx.Codec
	clock    *clock
	auditor  *recordingAuditor
	sessions *SessionService
	users    *UserService
	posts    *PostService
	comments *CommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "service.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	clk := &clock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	codec, err := jwtx.NewCodec([]byte(testSecret), jwtx.WithIssuer("soapbox"), jwtx.WithClock(clk.Now))
	require.NoError(t, err)

	hasher := cryptox.NewPasswordHasher("test-pepper")
	auditor := &recordingAuditor{}

	return &fixture{
		store:   s,
		hasher:  hasher,
		codec:   codec,
		clock:   clk,
		auditor: auditor,
		sessions: &SessionService{
			Credentials: s.Users(),
			Passwords:   hasher,
			Tokens:      codec,
			Audit:       auditor,
			Now:         clk.Now,
		},
		users:    &UserService{Store: s, Passwords: hasher},
		posts:    &PostService{Store: s},
		comments: &CommentService{Store: s},
	}
}

func (f *fixture) register(t *testing.T, username string) domain.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password-" + username,
	})
	require.NoError(t, err)
	return u
}
