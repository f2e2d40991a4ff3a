package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/soapbox/internal/api/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose sub-repositories so a Tx can hand out the same repos bound to the
// transaction.
type Store interface {
	Users() Users
	Posts() Posts
	Comments() Comments
	Likes() Likes

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByUsername is used by login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// ListUsers returns every user ordered by id.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// CreateUser inserts u and returns the new id. Duplicate usernames or
	// emails yield ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (int64, error)

	// UpdateUser changes username and email, bumping updated_at.
	UpdateUser(ctx context.Context, id int64, username, email string) error

	// UpdateProfile changes username and profile picture.
	UpdateProfile(ctx context.Context, id int64, username, profilePic string) error

	// UpdatePasswordHash replaces the stored digest, e.g. after a rehash.
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error

	// DeleteUser cascades to posts, comments and likes.
	DeleteUser(ctx context.Context, id int64) error

	CountAdmins(ctx context.Context) (int, error)
}

type Posts interface {
	CreatePost(ctx context.Context, p domain.Post) (int64, error)

	// GetPost returns a post with author, like count and whether viewerID
	// liked it. viewerID 0 means anonymous.
	GetPost(ctx context.Context, id, viewerID int64) (domain.Post, error)

	// ListPosts returns all posts newest first.
	ListPosts(ctx context.Context, viewerID int64) ([]domain.Post, error)

	UpdatePost(ctx context.Context, id int64, content string) error
	DeletePost(ctx context.Context, id int64) error
}

type Comments interface {
	CreateComment(ctx context.Context, c domain.Comment) (int64, error)

	// GetComment only matches a comment that belongs to postID.
	GetComment(ctx context.Context, postID, id int64) (domain.Comment, error)

	// ListComments returns the comments on a post newest first.
	ListComments(ctx context.Context, postID int64) ([]domain.Comment, error)

	UpdateComment(ctx context.Context, id int64, content string) error
	DeleteComment(ctx context.Context, id int64) error
}

type Likes interface {
	// ToggleLike likes the post if userID has not, otherwise removes the
	// like. It reports the new state and like count.
	ToggleLike(ctx context.Context, userID, postID int64) (liked bool, count int, err error)
}
