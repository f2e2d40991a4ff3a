package http

import (
	"fmt"

	"github.com/aussiebroadwan/soapbox/internal/api/domain"
	"github.com/aussiebroadwan/soapbox/pkg/apisdk"
	"github.com/aussiebroadwan/soapbox/pkg/httpx"
)

func userHref(id int64) string            { return fmt.Sprintf("/users/%d", id) }
func postHref(id int64) string            { return fmt.Sprintf("/posts/%d", id) }
func ownPostHref(id int64) string         { return fmt.Sprintf("/user/posts/%d", id) }
func commentsHref(postID int64) string    { return fmt.Sprintf("/posts/%d/comments", postID) }
func ownCommentsHref(postID int64) string { return fmt.Sprintf("/user/posts/%d/comments", postID) }

func presentUser(u domain.User) apisdk.UserResponse {
	return apisdk.UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       string(u.Role),
		ProfilePic: u.ProfilePic,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
		Links: httpx.Links{
			"self":   httpx.Get(userHref(u.ID)),
			"update": httpx.Put(userHref(u.ID)),
		},
	}
}

func presentPost(p domain.Post) apisdk.PostResponse {
	return apisdk.PostResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Username:  p.Username,
		Content:   p.Content,
		Likes:     p.LikeCount,
		Liked:     p.Liked,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Links: httpx.Links{
			"self":     httpx.Get(postHref(p.ID)),
			"update":   httpx.Put(ownPostHref(p.ID)),
			"delete":   httpx.Delete(ownPostHref(p.ID)),
			"like":     httpx.Put(ownPostHref(p.ID) + "/like"),
			"comments": httpx.Get(commentsHref(p.ID)),
			"all":      httpx.Get("/posts"),
		},
	}
}

func presentComment(c domain.Comment) apisdk.CommentResponse {
	own := fmt.Sprintf("%s/%d", ownCommentsHref(c.PostID), c.ID)
	return apisdk.CommentResponse{
		ID:         c.ID,
		PostID:     c.PostID,
		UserID:     c.UserID,
		Username:   c.Username,
		ProfilePic: c.ProfilePic,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Links: httpx.Links{
			"self":   httpx.Get(fmt.Sprintf("%s/%d", commentsHref(c.PostID), c.ID)),
			"update": httpx.Put(own),
			"delete": httpx.Delete(own),
			"all":    httpx.Get(commentsHref(c.PostID)),
		},
	}
}
