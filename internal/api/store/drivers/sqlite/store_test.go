package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/soapbox/internal/api/domain"
	"github.com/aussiebroadwan/soapbox/internal/api/store"
	"github.com/aussiebroadwan/soapbox/pkg/authz"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(DSN(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func createUser(t *testing.T, s *Store, username string, role authz.Role) int64 {
	t.Helper()

	id, err := s.Users().CreateUser(context.Background(), domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "argon2id$dummy",
		Role:         role,
	})
	require.NoError(t, err)
	return id
}

func TestMigrationVersion(t *testing.T) {
	s := newTestStore(t)

	version, dirty, err := s.MigrationVersion()
	require.NoError(t, err)
	require.False(t, dirty)
	require.EqualValues(t, 1, version)

	// Re-applying is a no-op.
	require.NoError(t, s.ApplyMigrations())
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	aliceID := createUser(t, s, "alice", authz.RoleUser)
	adminID := createUser(t, s, "root", authz.RoleAdmin)

	t.Run("lookup by username and id", func(t *testing.T) {
		u, err := s.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, aliceID, u.ID)
		require.Equal(t, authz.RoleUser, u.Role)
		require.Equal(t, "alice@example.com", u.Email)
		require.False(t, u.CreatedAt.IsZero())

		byID, err := s.Users().GetUserByID(ctx, adminID)
		require.NoError(t, err)
		require.Equal(t, "root", byID.Username)
		require.Equal(t, authz.RoleAdmin, byID.Role)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := s.Users().GetUserByUsername(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.Users().GetUserByID(ctx, 9999)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate username or email", func(t *testing.T) {
		_, err := s.Users().CreateUser(ctx, domain.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		_, err = s.Users().CreateUser(ctx, domain.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "x"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("empty role defaults to user", func(t *testing.T) {
		id := createUser(t, s, "carol", "")
		u, err := s.Users().GetUserByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, authz.RoleUser, u.Role)
	})

	t.Run("list and count admins", func(t *testing.T) {
		users, err := s.Users().ListUsers(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(users), 2)
		require.Equal(t, aliceID, users[0].ID)

		n, err := s.Users().CountAdmins(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("update user and profile", func(t *testing.T) {
		require.NoError(t, s.Users().UpdateUser(ctx, aliceID, "alice", "alice@new.example.com"))
		require.NoError(t, s.Users().UpdateProfile(ctx, aliceID, "alicia", "https://img.example.com/a.png"))
		require.NoError(t, s.Users().UpdatePasswordHash(ctx, aliceID, "argon2id$new"))

		u, err := s.Users().GetUserByID(ctx, aliceID)
		require.NoError(t, err)
		require.Equal(t, "alicia", u.Username)
		require.Equal(t, "alice@new.example.com", u.Email)
		require.Equal(t, "https://img.example.com/a.png", u.ProfilePic)
		require.Equal(t, "argon2id$new", u.PasswordHash)

		require.ErrorIs(t, s.Users().UpdateUser(ctx, 9999, "x", "x@example.com"), store.ErrNotFound)
		require.ErrorIs(t, s.Users().UpdateUser(ctx, aliceID, "root", "y@example.com"), store.ErrAlreadyExists)
	})
}

func TestPostsCommentsAndLikes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	tick := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	alice := createUser(t, s, "alice", authz.RoleUser)
	bob := createUser(t, s, "bob", authz.RoleUser)

	first, err := s.Posts().CreatePost(ctx, domain.Post{UserID: alice, Content: "first"})
	require.NoError(t, err)
	second, err := s.Posts().CreatePost(ctx, domain.Post{UserID: bob, Content: "second"})
	require.NoError(t, err)

	t.Run("post for unknown user", func(t *testing.T) {
		_, err := s.Posts().CreatePost(ctx, domain.Post{UserID: 9999, Content: "orphan"})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		posts, err := s.Posts().ListPosts(ctx, 0)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		require.Equal(t, second, posts[0].ID)
		require.Equal(t, "bob", posts[0].Username)
		require.Equal(t, first, posts[1].ID)
	})

	t.Run("toggle like", func(t *testing.T) {
		var (
			liked bool
			count int
		)
		err := s.WithTx(ctx, func(tx store.Tx) error {
			var err error
			liked, count, err = tx.Likes().ToggleLike(ctx, bob, first)
			return err
		})
		require.NoError(t, err)
		require.True(t, liked)
		require.Equal(t, 1, count)

		p, err := s.Posts().GetPost(ctx, first, bob)
		require.NoError(t, err)
		require.True(t, p.Liked)
		require.Equal(t, 1, p.LikeCount)

		p, err = s.Posts().GetPost(ctx, first, alice)
		require.NoError(t, err)
		require.False(t, p.Liked)

		liked, count, err = s.Likes().ToggleLike(ctx, bob, first)
		require.NoError(t, err)
		require.False(t, liked)
		require.Equal(t, 0, count)
	})

	t.Run("comments", func(t *testing.T) {
		c1, err := s.Comments().CreateComment(ctx, domain.Comment{PostID: first, UserID: bob, Content: "nice"})
		require.NoError(t, err)
		_, err = s.Comments().CreateComment(ctx, domain.Comment{PostID: first, UserID: alice, Content: "thanks"})
		require.NoError(t, err)

		list, err := s.Comments().ListComments(ctx, first)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "alice", list[0].Username)

		c, err := s.Comments().GetComment(ctx, first, c1)
		require.NoError(t, err)
		require.Equal(t, "nice", c.Content)

		_, err = s.Comments().GetComment(ctx, second, c1)
		require.ErrorIs(t, err, store.ErrNotFound)

		require.NoError(t, s.Comments().UpdateComment(ctx, c1, "very nice"))
		c, err = s.Comments().GetComment(ctx, first, c1)
		require.NoError(t, err)
		require.Equal(t, "very nice", c.Content)

		_, err = s.Comments().CreateComment(ctx, domain.Comment{PostID: 9999, UserID: bob, Content: "x"})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update and delete post cascades", func(t *testing.T) {
		require.NoError(t, s.Posts().UpdatePost(ctx, first, "edited"))
		p, err := s.Posts().GetPost(ctx, first, 0)
		require.NoError(t, err)
		require.Equal(t, "edited", p.Content)
		require.True(t, p.UpdatedAt.After(p.CreatedAt))

		require.NoError(t, s.Posts().DeletePost(ctx, first))
		_, err = s.Posts().GetPost(ctx, first, 0)
		require.ErrorIs(t, err, store.ErrNotFound)

		list, err := s.Comments().ListComments(ctx, first)
		require.NoError(t, err)
		require.Empty(t, list)

		require.ErrorIs(t, s.Posts().DeletePost(ctx, first), store.ErrNotFound)
	})

	t.Run("delete user cascades to posts", func(t *testing.T) {
		require.NoError(t, s.Users().DeleteUser(ctx, bob))
		_, err := s.Posts().GetPost(ctx, second, 0)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().CreateUser(ctx, domain.User{Username: "temp", Email: "t@example.com", PasswordHash: "x"}); err != nil {
			return err
		}
		return context.Canceled
	})
	require.ErrorIs(t, err, context.Canceled)

	_, err = s.Users().GetUserByUsername(ctx, "temp")
	require.ErrorIs(t, err, store.ErrNotFound)
}
