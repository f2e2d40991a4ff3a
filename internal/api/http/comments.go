package http

import (
	"net/http"

	"github.com/aussiebroadwan/soapbox/internal/api/service"
	"github.com/aussiebroadwan/soapbox/pkg/apisdk"
	"github.com/aussiebroadwan/soapbox/pkg/httpx"
)

type CommentsHandler struct {
	Comments *service.CommentService
}

// commentIDs reads {postId} and, when withID is set, {id}.
func commentIDs(r *http.Request, withID bool) (postID, id int64, err error) {
	if postID, err = pathID(r, "postId"); err != nil {
		return 0, 0, err
	}
	if withID {
		if id, err = pathID(r, "id"); err != nil {
			return 0, 0, err
		}
	}
	return postID, id, nil
}

// HandleCreate handles POST /user/posts/{postId}/comments
//
//	@Summary		Comment on a post
//	@Tags			Comments
//	@Accept			json
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Param			postId	path		int						true	"Post id"
//	@Param			request	body		apisdk.CommentRequest	true	"Content"
//	@Success		201		{object}	apisdk.CommentResponse
//	@Failure		404		{object}	apisdk.ErrorResponse	"post not found"
//	@Router			/user/posts/{postId}/comments [post]
func (h *CommentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	postID, _, err := commentIDs(r, false)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var req apisdk.CommentRequest
	if err := decode(w, r, &req, "Content is required"); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	c, err := h.Comments.Create(r.Context(), httpx.IdentityFrom(r.Context()), postID, req.Content)
	if err != nil {
		httpx.WriteError(w, r, serviceError(err, commentMessages))
		return
	}
	httpx.Write(w, r, http.StatusCreated, presentComment(c))
}

// HandleList handles GET /posts/{postId}/comments
//
//	@Summary		List comments
//	@Tags			Comments
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Param			postId	path		int	true	"Post id"
//	@Success		200		{object}	apisdk.CommentListResponse
//	@Failure		404		{object}	apisdk.ErrorResponse	"post not found"
//	@Router			/posts/{postId}/comments [get]
func (h *CommentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	postID, _, err := commentIDs(r, false)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	comments, err := h.Comments.List(r.Context(), postID)
	if err != nil {
		httpx.WriteError(w, r, serviceError(err, commentMessages))
		return
	}

	out := apisdk.CommentListResponse{
		Count:    len(comments),
		Comments: make([]apisdk.CommentResponse, 0, len(comments)),
		Links: httpx.Links{
			"self":   httpx.Get(commentsHref(postID)),
			"create": httpx.Post(ownCommentsHref(postID)),
			"post":   httpx.Get(postHref(postID)),
		},
	}
	for _, c := range comments {
		out.Comments = append(out.Comments, presentComment(c))
	}
	httpx.Write(w, r, http.StatusOK, out)
}

// HandleGet handles GET /posts/{postId}/comments/{id}
//
//	@Summary		Get a comment
//	@Tags			Comments
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Param			postId	path		int	true	"Post id"
//	@Param			id		path		int	true	"Comment id"
//	@Success		200		{object}	apisdk.CommentResponse
//	@Failure		404		{object}	apisdk.ErrorResponse
//	@Router			/posts/{postId}/comments/{id} [get]
func (h *CommentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	postID, id, err := commentIDs(r, true)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	c, err := h.Comments.Get(r.Context(), postID, id)
	if err != nil {
		httpx.WriteError(w, r, serviceError(err, commentMessages))
		return
	}
	httpx.Write(w, r, http.StatusOK, presentComment(c))
}

// HandleUpdate handles PUT /user/posts/{postId}/comments/{id}
//
//	@Summary		Edit a comment
//	@Description	Only the author or an admin may edit.
//	@Tags			Comments
//	@Accept			json
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Param			postId	path		int						true	"Post id"
//	@Param			id		path		int						true	"Comment id"
//	@Param			request	body		apisdk.CommentRequest	true	"Content"
//	@Success		200		{object}	apisdk.CommentUpdateResponse
//	@Failure		403		{object}	apisdk.ErrorResponse	"not the author"
//	@Failure		404		{object}	apisdk.ErrorResponse
//	@Router			/user/posts/{postId}/comments/{id} [put]
func (h *CommentsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	postID, id, err := commentIDs(r, true)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var req apisdk.CommentRequest
	if err := decode(w, r, &req, "Content is required"); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	c, err := h.Comments.Update(r.Context(), httpx.IdentityFrom(r.Context()), postID, id, req.Content)
	if err != nil {
		httpx.WriteError(w, r, serviceError(err, messages{
			NotFound:  commentMessages.NotFound,
			Forbidden: "Not authorised to update comment",
		}))
		return
	}

	httpx.Write(w, r, http.StatusOK, apisdk.CommentUpdateResponse{
		Message: "Comment updated",
		Comment: presentComment(c),
		Links:   httpx.Links{"all": httpx.Get(commentsHref(postID))},
	})
}

// HandleDelete handles DELETE /user/posts/{postId}/comments/{id}
//
//	@Summary		Delete a comment
//	@Tags			Comments
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Param			postId	path		int	true	"Post id"
//	@Param			id		path		int	true	"Comment id"
//	@Success		200		{object}	apisdk.MessageResponse
//	@Failure		403		{object}	apisdk.ErrorResponse	"not the author"
//	@Failure		404		{object}	apisdk.ErrorResponse
//	@Router			/user/posts/{postId}/comments/{id} [delete]
func (h *CommentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	postID, id, err := commentIDs(r, true)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	err = h.Comments.Delete(r.Context(), httpx.IdentityFrom(r.Context()), postID, id)
	if err != nil {
		httpx.WriteError(w, r, serviceError(err, messages{
			NotFound:  commentMessages.NotFound,
			Forbidden: "Not authorised to delete comment",
		}))
		return
	}

	httpx.Write(w, r, http.StatusOK, apisdk.MessageResponse{
		Message: "Comment deleted",
		Links:   httpx.Links{"all": httpx.Get(commentsHref(postID))},
	})
}
