package apisdk

import (
	"context"
	"fmt"
	"net/http"
)

// Me returns the identity behind the session's access token.
func (s *Session) Me(ctx context.Context) (*MeResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/me", nil)
	if err != nil {
		return nil, err
	}

	var out MeResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout clears the server cookies and forgets the tokens locally. Tokens
// already handed out stay valid until they expire.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/logout", nil)
	if err != nil {
		return err
	}
	if err := decodeJSON(resp, nil, http.StatusOK); err != nil {
		return err
	}

	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.mu.Unlock()
	return nil
}

func (s *Session) Profile(ctx context.Context) (*UserResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/profile", nil)
	if err != nil {
		return nil, err
	}

	var out UserResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/profile", req)
	if err != nil {
		return nil, err
	}

	var out UserUpdateResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (s *Session) ListUsers(ctx context.Context) (*UserListResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, err
	}

	var out UserListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser requires an admin session.
func (s *Session) CreateUser(ctx context.Context, req CreateUserRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/users", req)
	if err != nil {
		return 0, err
	}

	var out CreateUserResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return 0, err
	}
	return out.UserID, nil
}

func (s *Session) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*UserResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), req)
	if err != nil {
		return nil, err
	}

	var out UserUpdateResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// DeleteUser requires an admin session.
func (s *Session) DeleteUser(ctx context.Context, id int64) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}
