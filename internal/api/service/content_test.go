package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/soapbox/pkg/authz"
	"github.com/stretchr/testify/require"
)

func TestPostOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.register(t, "alice").Identity()
	bob := f.register(t, "bob").Identity()
	admin, err := f.users.CreateAdmin(ctx, "root", "root@example.com", "password-root")
	require.NoError(t, err)
	root := admin.Identity()

	post, err := f.posts.Create(ctx, &alice, "hello world")
	require.NoError(t, err)
	require.Equal(t, "alice", post.Username)

	t.Run("other user cannot edit or delete", func(t *testing.T) {
		_, err := f.posts.Update(ctx, &bob, post.ID, "hijacked")
		require.ErrorIs(t, err, authz.ErrForbidden)

		err = f.posts.Delete(ctx, &bob, post.ID)
		require.ErrorIs(t, err, authz.ErrForbidden)

		p, err := f.posts.Get(ctx, nil, post.ID)
		require.NoError(t, err)
		require.Equal(t, "hello world", p.Content)
	})

	t.Run("anonymous actor is unauthenticated", func(t *testing.T) {
		_, err := f.posts.Update(ctx, nil, post.ID, "x")
		require.ErrorIs(t, err, authz.ErrUnauthenticated)
	})

	t.Run("owner can edit", func(t *testing.T) {
		p, err := f.posts.Update(ctx, &alice, post.ID, "edited")
		require.NoError(t, err)
		require.Equal(t, "edited", p.Content)
	})

	t.Run("admin can edit anything", func(t *testing.T) {
		p, err := f.posts.Update(ctx, &root, post.ID, "moderated")
		require.NoError(t, err)
		require.Equal(t, "moderated", p.Content)
	})

	t.Run("empty content", func(t *testing.T) {
		_, err := f.posts.Update(ctx, &alice, post.ID, "  ")
		require.ErrorIs(t, err, ErrInvalidInput)
		_, err = f.posts.Create(ctx, &alice, "")
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := f.posts.Update(ctx, &alice, 9999, "x")
		require.ErrorIs(t, err, ErrPostNotFound)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("likes toggle per user", func(t *testing.T) {
		liked, count, err := f.posts.ToggleLike(ctx, &bob, post.ID)
		require.NoError(t, err)
		require.True(t, liked)
		require.Equal(t, 1, count)

		liked, count, err = f.posts.ToggleLike(ctx, &alice, post.ID)
		require.NoError(t, err)
		require.True(t, liked)
		require.Equal(t, 2, count)

		posts, err := f.posts.List(ctx, &bob)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		require.True(t, posts[0].Liked)
		require.Equal(t, 2, posts[0].LikeCount)

		liked, count, err = f.posts.ToggleLike(ctx, &bob, post.ID)
		require.NoError(t, err)
		require.False(t, liked)
		require.Equal(t, 1, count)

		_, _, err = f.posts.ToggleLike(ctx, &bob, 9999)
		require.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("owner can delete", func(t *testing.T) {
		require.NoError(t, f.posts.Delete(ctx, &alice, post.ID))
		_, err := f.posts.Get(ctx, &alice, post.ID)
		require.ErrorIs(t, err, ErrPostNotFound)
	})
}

func TestCommentOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.register(t, "alice").Identity()
	bob := f.register(t, "bob").Identity()
	admin, err := f.users.CreateAdmin(ctx, "root", "root@example.com", "password-root")
	require.NoError(t, err)
	root := admin.Identity()

	post, err := f.posts.Create(ctx, &alice, "hello")
	require.NoError(t, err)
	other, err := f.posts.Create(ctx, &bob, "another")
	require.NoError(t, err)

	c, err := f.comments.Create(ctx, &bob, post.ID, "first!")
	require.NoError(t, err)
	require.Equal(t, "bob", c.Username)
	require.Equal(t, post.ID, c.PostID)

	t.Run("comment on missing post", func(t *testing.T) {
		_, err := f.comments.Create(ctx, &bob, 9999, "x")
		require.ErrorIs(t, err, ErrPostNotFound)

		_, err = f.comments.List(ctx, 9999)
		require.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("post author cannot edit a comment they did not write", func(t *testing.T) {
		_, err := f.comments.Update(ctx, &alice, post.ID, c.ID, "changed")
		require.ErrorIs(t, err, authz.ErrForbidden)
		require.ErrorIs(t, f.comments.Delete(ctx, &alice, post.ID, c.ID), authz.ErrForbidden)
	})

	t.Run("comment must belong to the post in the path", func(t *testing.T) {
		_, err := f.comments.Update(ctx, &bob, other.ID, c.ID, "changed")
		require.ErrorIs(t, err, ErrCommentNotFound)
	})

	t.Run("author and admin may edit", func(t *testing.T) {
		updated, err := f.comments.Update(ctx, &bob, post.ID, c.ID, "second!")
		require.NoError(t, err)
		require.Equal(t, "second!", updated.Content)

		updated, err = f.comments.Update(ctx, &root, post.ID, c.ID, "[removed]")
		require.NoError(t, err)
		require.Equal(t, "[removed]", updated.Content)
	})

	t.Run("list and delete", func(t *testing.T) {
		list, err := f.comments.List(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)

		require.NoError(t, f.comments.Delete(ctx, &root, post.ID, c.ID))
		_, err = f.comments.Get(ctx, post.ID, c.ID)
		require.ErrorIs(t, err, ErrCommentNotFound)
	})
}
