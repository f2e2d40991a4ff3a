package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/soapbox/internal/api/service"
	"github.com/aussiebroadwan/soapbox/pkg/authz"
	"github.com/aussiebroadwan/soapbox/pkg/httpx"
)

// messages are the client-facing texts for one resource.
type messages struct {
	NotFound  string
	Forbidden string
}

var (
	userMessages    = messages{NotFound: "User Not Found.", Forbidden: httpx.RoleMessage}
	profileMessages = messages{NotFound: "User not found", Forbidden: httpx.RoleMessage}
	postMessages    = messages{NotFound: "Post not found", Forbidden: "Not authorised to modify post"}
	commentMessages = messages{NotFound: "Comment not found", Forbidden: "Not authorised to modify comment"}
)

// serviceError maps service and authz errors onto HTTP errors.
func serviceError(err error, m messages) error {
	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		return &httpx.Error{Status: http.StatusUnauthorized, Message: httpx.AuthenticationMessage, Err: err}
	case errors.Is(err, authz.ErrForbidden):
		return &httpx.Error{Status: http.StatusForbidden, Message: m.Forbidden, Err: err}
	case errors.Is(err, service.ErrPostNotFound) && m != postMessages:
		// A comment route whose post is gone.
		return &httpx.Error{Status: http.StatusNotFound, Message: postMessages.NotFound, Err: err}
	case errors.Is(err, service.ErrNotFound):
		return &httpx.Error{Status: http.StatusNotFound, Message: m.NotFound, Err: err}
	case errors.Is(err, service.ErrConflict):
		return &httpx.Error{Status: http.StatusConflict, Message: "Username or email already exists", Err: err}
	case errors.Is(err, service.ErrLastAdmin):
		return &httpx.Error{Status: http.StatusConflict, Message: "Cannot delete the last admin", Err: err}
	case errors.Is(err, service.ErrInvalidInput):
		return &httpx.Error{Status: http.StatusBadRequest, Message: "Invalid input", Err: err}
	default:
		return httpx.Internal(err)
	}
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, httpx.BadRequest("Invalid " + name)
	}
	return id, nil
}

type validatable interface {
	Validate() error
}

// decode reads the JSON body into dst and runs its validation rules. When
// msg is set it replaces the validator's own message.
func decode(w http.ResponseWriter, r *http.Request, dst validatable, msg string) error {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		return err
	}
	if err := dst.Validate(); err != nil {
		if msg == "" {
			msg = err.Error()
		}
		return &httpx.Error{Status: http.StatusBadRequest, Message: msg, Err: err}
	}
	return nil
}
