package apisdk

import (
	"context"
	"fmt"
	"net/http"
)

func (s *Session) CreatePost(ctx context.Context, content string) (*PostResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/user/posts", PostRequest{Content: content})
	if err != nil {
		return nil, err
	}

	var out PostResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) ListPosts(ctx context.Context) (*PostListResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/posts", nil)
	if err != nil {
		return nil, err
	}

	var out PostListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) GetPost(ctx context.Context, id int64) (*PostResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var out PostResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePost only succeeds for the author or an admin.
func (s *Session) UpdatePost(ctx context.Context, id int64, content string) (*PostResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, fmt.Sprintf("/user/posts/%d", id), PostRequest{Content: content})
	if err != nil {
		return nil, err
	}

	var out PostUpdateResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

func (s *Session) DeletePost(ctx context.Context, id int64) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, fmt.Sprintf("/user/posts/%d", id), nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// ToggleLike likes the post, or removes an existing like.
func (s *Session) ToggleLike(ctx context.Context, id int64) (*LikeResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, fmt.Sprintf("/user/posts/%d/like", id), nil)
	if err != nil {
		return nil, err
	}

	var out LikeResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) AddComment(ctx context.Context, postID int64, content string) (*CommentResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, fmt.Sprintf("/user/posts/%d/comments", postID), CommentRequest{Content: content})
	if err != nil {
		return nil, err
	}

	var out CommentResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) ListComments(ctx context.Context, postID int64) (*CommentListResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, fmt.Sprintf("/posts/%d/comments", postID), nil)
	if err != nil {
		return nil, err
	}

	var out CommentListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateComment(ctx context.Context, postID, id int64, content string) (*CommentResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, fmt.Sprintf("/user/posts/%d/comments/%d", postID, id), CommentRequest{Content: content})
	if err != nil {
		return nil, err
	}

	var out CommentUpdateResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.Comment, nil
}

func (s *Session) DeleteComment(ctx context.Context, postID, id int64) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, fmt.Sprintf("/user/posts/%d/comments/%d", postID, id), nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}
