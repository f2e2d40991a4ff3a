package service

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredentials = errors.New("missing_credentials")
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrUserNotFound is a login failure. It matches ErrInvalidCredentials so
	// callers cannot tell an unknown user from a wrong password.
	ErrUserNotFound = fmt.Errorf("%w: user not found", ErrInvalidCredentials)

	ErrMissingToken = errors.New("missing_token")
	ErrInvalidToken = errors.New("invalid_token")

	ErrInvalidInput = errors.New("invalid_input")
	ErrConflict     = errors.New("conflict")
	ErrLastAdmin    = errors.New("cannot remove the last admin")

	ErrNotFound        = errors.New("not_found")
	ErrAccountNotFound = fmt.Errorf("%w: user", ErrNotFound)
	ErrPostNotFound    = fmt.Errorf("%w: post", ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("%w: comment", ErrNotFound)
)
