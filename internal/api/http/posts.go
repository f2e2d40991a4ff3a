package http

import (
	"net/http"

	"github.com/aussiebroadwan/soapbox/internal/api/service"
	"github.com/aussiebroadwan/soapbox/pkg/apisdk"
	"github.com/aussiebroadwan/soapbox/pkg/httpx"
)

type PostsHandler struct {
	Posts *service.PostService
}

// HandleCreate handles POST /user/posts
//
//	@Summary		Create a post
//	@Tags			Posts
//	@Accept			json
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Param			request	body		apisdk.PostRequest	true	"Content"
//	@Success		201		{object}	apisdk.PostResponse
//	@Failure		400		{object}	apisdk.ErrorResponse
//	@Failure		403		{object}	apisdk.ErrorResponse	"missing posts:write"
//	@Router			/user/posts [post]
func (h *PostsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req apisdk.PostRequest
	if err := decode(w, r, &req, "Content is required"); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	p, err := h.Posts.Create(r.Context(), httpx.IdentityFrom(r.Context()), req.Content)
	if err != nil {
		httpx.WriteError(w, r, serviceError(err, postMessages))
		return
	}
	httpx.Write(w, r, http.StatusCreated, presentPost(p))
}

// HandleList handles GET /posts
//
//	@Summary		List posts
//	@Description	Newest first, with like counts and whether the caller liked each post.
//	@Tags			Posts
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Success		200	{object}	apisdk.PostListResponse
//	@Failure		403	{object}	apisdk.ErrorResponse	"missing posts:read"
//	@Router			/posts [get]
func (h *PostsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Posts.List(r.Context(), httpx.IdentityFrom(r.Context()))
	if err != nil {
		httpx.WriteError(w, r, serviceError(err, postMessages))
		return
	}

	out := apisdk.PostListResponse{
		Count: len(posts),
		Posts: make([]apisdk.PostResponse, 0, len(posts)),
		Links: httpx.Links{
			"self":   httpx.Get("/posts"),
			"create": httpx.Post("/user/posts"),
		},
	}
	for _, p := range posts {
		out.Posts = append(out.Posts, presentPost(p))
	}
	httpx.Write(w, r, http.StatusOK, out)
}

// HandleGet handles GET /posts/{id}
//
//	@Summary		Get a post
//	@Tags			Posts
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Post id"
//	@Success		200	{object}	apisdk.PostResponse
//	@Failure		404	{object}	apisdk.ErrorResponse
//	@Router			/posts/{id} [get]
func (h *PostsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	p, err := h.Posts.Get(r.Context(), httpx.IdentityFrom(r.Context()), id)
	if err != nil {
		httpx.WriteError(w, r, serviceError(err, postMessages))
		return
	}
	httpx.Write(w, r, http.StatusOK, presentPost(p))
}

// HandleUpdate handles PUT /user/posts/{id}
//
//	@Summary		Edit a post
//	@Description	Only the author or an admin may edit.
//	@Tags			Posts
//	@Accept			json
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Param			id		path		int					true	"Post id"
//	@Param			request	body		apisdk.PostRequest	true	"Content"
//	@Success		200		{object}	apisdk.PostUpdateResponse
//	@Failure		403		{object}	apisdk.ErrorResponse	"not the author"
//	@Failure		404		{object}	apisdk.ErrorResponse
//	@Router			/user/posts/{id} [put]
func (h *PostsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var req apisdk.PostRequest
	if err := decode(w, r, &req, "Content is required"); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	p, err := h.Posts.Update(r.Context(), httpx.IdentityFrom(r.Context()), id, req.Content)
	if err != nil {
		httpx.WriteError(w, r, serviceError(err, postMessages))
		return
	}

	httpx.Write(w, r, http.StatusOK, apisdk.PostUpdateResponse{
		Message: "Post updated",
		Post:    presentPost(p),
		Links:   httpx.Links{"self": httpx.Get(postHref(p.ID))},
	})
}

// HandleDelete handles DELETE /user/posts/{id}
//
//	@Summary		Delete a post
//	@Tags			Posts
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Post id"
//	@Success		200	{object}	apisdk.MessageResponse
//	@Failure		403	{object}	apisdk.ErrorResponse	"not the author"
//	@Failure		404	{object}	apisdk.ErrorResponse
//	@Router			/user/posts/{id} [delete]
func (h *PostsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.Posts.Delete(r.Context(), httpx.IdentityFrom(r.Context()), id); err != nil {
		httpx.WriteError(w, r, serviceError(err, postMessages))
		return
	}

	httpx.Write(w, r, http.StatusOK, apisdk.MessageResponse{
		Message: "Post deleted",
		Links:   httpx.Links{"all": httpx.Get("/posts")},
	})
}

// HandleLike handles PUT /user/posts/{id}/like
//
//	@Summary		Toggle a like
//	@Tags			Posts
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Post id"
//	@Success		200	{object}	apisdk.LikeResponse
//	@Failure		404	{object}	apisdk.ErrorResponse
//	@Router			/user/posts/{id}/like [put]
func (h *PostsHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	liked, count, err := h.Posts.ToggleLike(r.Context(), httpx.IdentityFrom(r.Context()), id)
	if err != nil {
		httpx.WriteError(w, r, serviceError(err, postMessages))
		return
	}

	httpx.Write(w, r, http.StatusOK, apisdk.LikeResponse{
		Liked: liked,
		Likes: count,
		Links: httpx.Links{"post": httpx.Get(postHref(id))},
	})
}
