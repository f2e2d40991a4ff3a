package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/soapbox/internal/api/domain"
	"github.com/aussiebroadwan/soapbox/internal/api/store"
	"github.com/aussiebroadwan/soapbox/pkg/authz"
)

type CommentService struct {
	Store store.Store
}

func (s *CommentService) Create(ctx context.Context, actor *authz.Identity, postID int64, content string) (domain.Comment, error) {
	if actor == nil {
		return domain.Comment{}, authz.ErrUnauthenticated
	}
	if strings.TrimSpace(content) == "" {
		return domain.Comment{}, ErrInvalidInput
	}

	if _, err := s.Store.Posts().GetPost(ctx, postID, actor.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, ErrPostNotFound
		}
		return domain.Comment{}, err
	}

	id, err := s.Store.Comments().CreateComment(ctx, domain.Comment{
		PostID:  postID,
		UserID:  actor.ID,
		Content: content,
	})
	if err != nil {
		// The post or author vanished between the check and the insert.
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, ErrPostNotFound
		}
		return domain.Comment{}, err
	}
	return s.Get(ctx, postID, id)
}

// List returns the comments on a post newest first.
func (s *CommentService) List(ctx context.Context, postID int64) ([]domain.Comment, error) {
	if _, err := s.Store.Posts().GetPost(ctx, postID, 0); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.Store.Comments().ListComments(ctx, postID)
}

// Get only finds a comment that belongs to postID.
func (s *CommentService) Get(ctx context.Context, postID, id int64) (domain.Comment, error) {
	c, err := s.Store.Comments().GetComment(ctx, postID, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Comment{}, ErrCommentNotFound
	}
	return c, err
}

func (s *CommentService) Update(ctx context.Context, actor *authz.Identity, postID, id int64, content string) (domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Comment{}, ErrInvalidInput
	}

	c, err := s.Get(ctx, postID, id)
	if err != nil {
		return domain.Comment{}, err
	}
	if err := authz.RequireOwnership(actor, c.UserID).Err(); err != nil {
		return domain.Comment{}, err
	}

	if err := s.Store.Comments().UpdateComment(ctx, id, content); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, ErrCommentNotFound
		}
		return domain.Comment{}, err
	}
	return s.Get(ctx, postID, id)
}

func (s *CommentService) Delete(ctx context.Context, actor *authz.Identity, postID, id int64) error {
	c, err := s.Get(ctx, postID, id)
	if err != nil {
		return err
	}
	if err := authz.RequireOwnership(actor, c.UserID).Err(); err != nil {
		return err
	}

	err = s.Store.Comments().DeleteComment(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrCommentNotFound
	}
	return err
}
