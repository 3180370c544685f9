package storage

import (
	"context"
	"errors"

	"threadloom.com/threadloom-backend/models"
)

// ErrNotFound is returned by every store when the referenced entity is absent.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when a unique field (username, email) is taken.
var ErrAlreadyExists = errors.New("already exists")

// UserUpdate carries the optional profile fields of an update request.
// A nil field leaves the stored value unchanged.
type UserUpdate struct {
	Username   *string
	Name       *string
	Email      *string
	Password   *string
	Bio        *string
	ProfilePic *string
}

// IdentityStore holds user records. Each method is a single-record operation
// executed under the store's own per-record atomicity; no method spans two
// records in one write.
type IdentityStore interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, upd UserUpdate) (*models.User, error)

	// Follow-edge set operations. Adding an existing member or removing a
	// missing one is a no-op, not an error.
	AddFollower(ctx context.Context, userID, followerID string) error
	RemoveFollower(ctx context.Context, userID, followerID string) error
	AddFollowing(ctx context.Context, userID, followingID string) error
	RemoveFollowing(ctx context.Context, userID, followingID string) error

	AddDeviceToken(ctx context.Context, userID, token string) error
	RemoveDeviceToken(ctx context.Context, token string) error

	// AllUsers feeds the out-of-band repair sweep.
	AllUsers(ctx context.Context) ([]*models.User, error)
}

// ContentStore holds post records together with their embedded replies and
// liker sets.
type ContentStore interface {
	CreatePost(ctx context.Context, p *models.Post) (*models.Post, error)
	PostByID(ctx context.Context, id string) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error

	// PostsByAuthor and PostsByAuthors return posts ordered by creation time
	// descending, ties broken by descending ID so repeated reads over
	// unchanged data keep a stable order.
	PostsByAuthor(ctx context.Context, authorID string) ([]*models.Post, error)
	PostsByAuthors(ctx context.Context, authorIDs []string) ([]*models.Post, error)

	// Liker-set operations collapse duplicates: adding a present member or
	// removing an absent one leaves the set unchanged.
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error

	AppendReply(ctx context.Context, postID string, r models.Reply) error

	// UpdateReplyProfiles rewrites the denormalized display fields of every
	// reply authored by userID, across all posts, and returns how many
	// replies were touched.
	UpdateReplyProfiles(ctx context.Context, userID, name, profilePic string) (int, error)

	// AllPosts feeds the out-of-band repair sweep.
	AllPosts(ctx context.Context) ([]*models.Post, error)
}
