package apisdk

import (
	"time"

	"github.com/aussiebroadwan/soapbox/pkg/httpx"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Link and Links are the HATEOAS links carried under "_links".
type (
	Link  = httpx.Link
	Links = httpx.Links
)

// ErrorResponse is the body of every error.
type ErrorResponse = httpx.ErrorBody

// MessageResponse is returned by endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
	Links   Links  `json:"_links,omitempty"`
}

// ============================================================================
// Session
// ============================================================================

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type LoginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int   `json:"expiresIn"`
	Links     Links `json:"_links"`
}

// RefreshRequest is optional: browsers send the refresh_token cookie instead.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
	Links       Links  `json:"_links"`
}

// MeResponse describes the identity behind the presented access token.
type MeResponse struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Role     string   `json:"role"`
	Scopes   []string `json:"scopes,omitempty"`
}

// ============================================================================
// Users
// ============================================================================

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 30)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 0)),
	)
}

type UserResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	ProfilePic string    `json:"profilePic,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Links      Links     `json:"_links,omitempty"`
}

type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Links   Links        `json:"_links"`
}

// CreateUserRequest is the admin variant of registration. Password and role
// are optional.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 30)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Length(6, 0)),
		validation.Field(&r.Role, validation.In("user", "admin")),
	)
}

type CreateUserResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
	Links   Links  `json:"_links"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 30)),
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

type UserListResponse struct {
	Count int            `json:"count"`
	Users []UserResponse `json:"users"`
	Links Links          `json:"_links"`
}

type UserUpdateResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Links   Links        `json:"_links"`
}

// UpdateProfileRequest fields are optional; empty ones are left unchanged.
type UpdateProfileRequest struct {
	Username   string `json:"username,omitempty"`
	ProfilePic string `json:"profilePic,omitempty"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Length(3, 30)),
		validation.Field(&r.ProfilePic, is.URL),
	)
}

// ============================================================================
// Posts
// ============================================================================

type PostRequest struct {
	Content string `json:"content"`
}

func (r PostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required, validation.Length(1, 0)),
	)
}

type PostResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Links     Links     `json:"_links,omitempty"`
}

type PostListResponse struct {
	Count int            `json:"count"`
	Posts []PostResponse `json:"posts"`
	Links Links          `json:"_links"`
}

type PostUpdateResponse struct {
	Message string       `json:"message"`
	Post    PostResponse `json:"post"`
	Links   Links        `json:"_links"`
}

type LikeResponse struct {
	Liked bool  `json:"liked"`
	Likes int   `json:"likes"`
	Links Links `json:"_links"`
}

// ============================================================================
// Comments
// ============================================================================

type CommentRequest struct {
	Content string `json:"content"`
}

func (r CommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required, validation.Length(1, 0)),
	)
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"post_id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	ProfilePic string    `json:"profile_pic,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Links      Links     `json:"_links,omitempty"`
}

type CommentListResponse struct {
	Count    int               `json:"count"`
	Comments []CommentResponse `json:"comments"`
	Links    Links             `json:"_links"`
}

type CommentUpdateResponse struct {
	Message string          `json:"message"`
	Comment CommentResponse `json:"comment"`
	Links   Links           `json:"_links"`
}

// ============================================================================
// System
// ============================================================================

type HealthChecks struct {
	Database   string `json:"database"`
	Migrations string `json:"migrations"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
