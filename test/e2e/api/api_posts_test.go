//go:build e2e

package api_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/soapbox/pkg/apisdk"
	"github.com/stretchr/testify/require"
)

// TestPostOwnership verifies only the author may edit a post, while
// anyone may like and comment on it.
func TestPostOwnership(t *testing.T) {
	_, baseURL := setupAPIContainer(t)
	client := apisdk.NewClient(baseURL)

	_, alice := registerAndLogin(t, client, "alice")
	_, bob := registerAndLogin(t, client, "bob")

	post, err := alice.CreatePost(t.Context(), "hello from alice")
	require.NoError(t, err)
	require.Equal(t, "alice", post.Username)
	assertLinks(t, post.Links, "self", "update", "delete", "like", "comments", "all")

	_, err = bob.UpdatePost(t.Context(), post.ID, "hijacked")
	assertStatus(t, err, http.StatusForbidden, "update someone else's post")

	err = bob.DeletePost(t.Context(), post.ID)
	assertStatus(t, err, http.StatusForbidden, "delete someone else's post")

	updated, err := alice.UpdatePost(t.Context(), post.ID, "edited")
	require.NoError(t, err)
	require.Equal(t, "edited", updated.Content)

	like, err := bob.ToggleLike(t.Context(), post.ID)
	require.NoError(t, err)
	require.True(t, like.Liked)
	require.Equal(t, 1, like.Likes)

	comment, err := bob.AddComment(t.Context(), post.ID, "nice")
	require.NoError(t, err)

	_, err = alice.UpdateComment(t.Context(), post.ID, comment.ID, "edited")
	assertStatus(t, err, http.StatusForbidden, "update someone else's comment")

	comments, err := alice.ListComments(t.Context(), post.ID)
	require.NoError(t, err)
	require.Equal(t, 1, comments.Count)
	require.Equal(t, "bob", comments.Comments[0].Username)

	posts, err := bob.ListPosts(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, posts.Count)
	require.True(t, posts.Posts[0].Liked)

	require.NoError(t, alice.DeletePost(t.Context(), post.ID))

	_, err = bob.GetPost(t.Context(), post.ID)
	assertStatus(t, err, http.StatusNotFound, "deleted post")
}

// TestProfile verifies profile reads and partial updates.
func TestProfile(t *testing.T) {
	_, baseURL := setupAPIContainer(t)
	client := apisdk.NewClient(baseURL)

	_, alice := registerAndLogin(t, client, "alice")

	updated, err := alice.UpdateProfile(t.Context(), apisdk.UpdateProfileRequest{
		ProfilePic: "https://example.com/alice.png",
	})
	require.NoError(t, err)
	require.Equal(t, "alice", updated.Username)

	profile, err := alice.Profile(t.Context())
	require.NoError(t, err)
	require.Equal(t, "https://example.com/alice.png", profile.ProfilePic)
}
