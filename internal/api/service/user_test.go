package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/soapbox/pkg/authz"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u := f.register(t, "alice")
	require.Equal(t, authz.RoleUser, u.Role)
	require.NotEqual(t, "password-alice", u.PasswordHash)
	require.NoError(t, f.hasher.Verify("password-alice", u.PasswordHash))

	_, err := f.users.Register(ctx, RegisterInput{Username: "alice", Email: "new@example.com", Password: "secret1"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = f.users.Register(ctx, RegisterInput{Username: "bob", Password: "secret1"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserManagement(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.register(t, "alice")
	aliceID := alice.Identity()
	bob := f.register(t, "bob").Identity()
	admin, err := f.users.CreateAdmin(ctx, "root", "root@example.com", "password-root")
	require.NoError(t, err)
	require.Equal(t, authz.RoleAdmin, admin.Role)
	root := admin.Identity()

	t.Run("only admins create users", func(t *testing.T) {
		_, err := f.users.CreateByAdmin(ctx, &bob, CreateUserInput{Username: "eve", Email: "eve@example.com"})
		require.ErrorIs(t, err, authz.ErrForbidden)

		u, err := f.users.CreateByAdmin(ctx, &root, CreateUserInput{Username: "eve", Email: "eve@example.com"})
		require.NoError(t, err)
		require.Equal(t, authz.RoleUser, u.Role)
		require.NotEmpty(t, u.PasswordHash)

		_, err = f.users.CreateByAdmin(ctx, &root, CreateUserInput{Username: "zed", Email: "zed@example.com", Role: "owner"})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("users update themselves only", func(t *testing.T) {
		_, err := f.users.Update(ctx, &bob, alice.ID, "bobby", "bobby@example.com")
		require.ErrorIs(t, err, authz.ErrForbidden)

		u, err := f.users.Update(ctx, &aliceID, alice.ID, "alice", "alice@new.example.com")
		require.NoError(t, err)
		require.Equal(t, "alice@new.example.com", u.Email)

		_, err = f.users.Update(ctx, &aliceID, alice.ID, "bob", "x@example.com")
		require.ErrorIs(t, err, ErrConflict)

		_, err = f.users.Update(ctx, &root, 9999, "ghost", "ghost@example.com")
		require.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("profile", func(t *testing.T) {
		p, err := f.users.Profile(ctx, &aliceID)
		require.NoError(t, err)
		require.Equal(t, "alice", p.Username)

		p, err = f.users.UpdateProfile(ctx, &aliceID, "", "https://img.example.com/alice.png")
		require.NoError(t, err)
		require.Equal(t, "alice", p.Username)
		require.Equal(t, "https://img.example.com/alice.png", p.ProfilePic)

		_, err = f.users.Profile(ctx, nil)
		require.ErrorIs(t, err, authz.ErrUnauthenticated)
	})

	t.Run("delete requires admin and keeps the last admin", func(t *testing.T) {
		require.ErrorIs(t, f.users.Delete(ctx, &bob, alice.ID), authz.ErrForbidden)
		require.ErrorIs(t, f.users.Delete(ctx, &root, root.ID), ErrLastAdmin)
		require.ErrorIs(t, f.users.Delete(ctx, &root, 9999), ErrAccountNotFound)

		require.NoError(t, f.users.Delete(ctx, &root, bob.ID))
		_, err := f.users.Get(ctx, bob.ID)
		require.ErrorIs(t, err, ErrAccountNotFound)
	})
}
