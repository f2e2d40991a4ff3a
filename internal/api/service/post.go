package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/soapbox/internal/api/domain"
	"github.com/aussiebroadwan/soapbox/internal/api/store"
	"github.com/aussiebroadwan/soapbox/pkg/authz"
)

type PostService struct {
	Store store.Store
}

func viewerID(viewer *authz.Identity) int64 {
	if viewer == nil {
		return 0
	}
	return viewer.ID
}

func (s *PostService) Create(ctx context.Context, actor *authz.Identity, content string) (domain.Post, error) {
	if actor == nil {
		return domain.Post{}, authz.ErrUnauthenticated
	}
	if strings.TrimSpace(content) == "" {
		return domain.Post{}, ErrInvalidInput
	}

	id, err := s.Store.Posts().CreatePost(ctx, domain.Post{UserID: actor.ID, Content: content})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Post{}, ErrAccountNotFound
		}
		return domain.Post{}, err
	}
	return s.Get(ctx, actor, id)
}

// List returns every post newest first, flagged with whether viewer liked it.
func (s *PostService) List(ctx context.Context, viewer *authz.Identity) ([]domain.Post, error) {
	return s.Store.Posts().ListPosts(ctx, viewerID(viewer))
}

func (s *PostService) Get(ctx context.Context, viewer *authz.Identity, id int64) (domain.Post, error) {
	p, err := s.Store.Posts().GetPost(ctx, id, viewerID(viewer))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Post{}, ErrPostNotFound
	}
	return p, err
}

// Update edits a post. Only the author or an admin may do so.
func (s *PostService) Update(ctx context.Context, actor *authz.Identity, id int64, content string) (domain.Post, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Post{}, ErrInvalidInput
	}

	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return domain.Post{}, err
	}
	if err := authz.RequireOwnership(actor, p.UserID).Err(); err != nil {
		return domain.Post{}, err
	}

	if err := s.Store.Posts().UpdatePost(ctx, id, content); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, err
	}
	return s.Get(ctx, actor, id)
}

// Delete removes a post with its comments and likes.
func (s *PostService) Delete(ctx context.Context, actor *authz.Identity, id int64) error {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := authz.RequireOwnership(actor, p.UserID).Err(); err != nil {
		return err
	}

	err = s.Store.Posts().DeletePost(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrPostNotFound
	}
	return err
}

// ToggleLike flips the caller's like on a post and reports the new state
// and total.
func (s *PostService) ToggleLike(ctx context.Context, actor *authz.Identity, id int64) (liked bool, count int, err error) {
	if actor == nil {
		return false, 0, authz.ErrUnauthenticated
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Posts().GetPost(ctx, id, actor.ID); err != nil {
			return err
		}
		liked, count, err = tx.Likes().ToggleLike(ctx, actor.ID, id)
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		return false, 0, ErrPostNotFound
	}
	return liked, count, err
}
