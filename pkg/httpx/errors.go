package httpx

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/soapbox/pkg/slogx"
)

// Error is an error that knows its HTTP status and client-facing message.
// Err, when set, is logged but never sent to the client.
type Error struct {
	Status  int
	Message string
	Err     error

	// Challenge, when set, is sent as WWW-Authenticate.
	Challenge string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorBody is the envelope every error response uses.
type ErrorBody struct {
	Error string `json:"error"`
	Links Links  `json:"_links"`
}

func NewError(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

func BadRequest(msg string) *Error { return NewError(http.StatusBadRequest, msg) }
func Forbidden(msg string) *Error  { return NewError(http.StatusForbidden, msg) }
func NotFound(msg string) *Error   { return NewError(http.StatusNotFound, msg) }
func Conflict(msg string) *Error   { return NewError(http.StatusConflict, msg) }

// Unauthorized carries an RFC 6750 invalid_token challenge.
func Unauthorized(msg string) *Error {
	return &Error{
		Status:    http.StatusUnauthorized,
		Message:   msg,
		Challenge: `Bearer error="invalid_token"`,
	}
}

// Internal hides err behind a generic message.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "Internal server error", Err: err}
}

// WriteError writes err with the error envelope. Anything that is not an
// *Error becomes a 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var he *Error
	if !errors.As(err, &he) {
		he = Internal(err)
	}

	log := slogx.FromContext(r.Context())
	if he.Status >= http.StatusInternalServerError {
		log.Error("request failed", "status", he.Status, "err", err)
	} else {
		log.Debug("request error", "status", he.Status, "err", err)
	}

	if he.Challenge != "" {
		w.Header().Set("WWW-Authenticate", he.Challenge)
	}
	Write(w, r, he.Status, ErrorBody{Error: he.Message, Links: ErrorLinks()})
}
