package social

import (
	"context"

	"go.uber.org/zap"
	"threadloom.com/threadloom-backend/storage"
)

// ImageStore is the binary-upload collaborator: it turns raw image data into
// a stable reference URL and can delete a stored object by reference. The
// service only ever stores the reference string.
type ImageStore interface {
	Upload(ctx context.Context, data string) (string, error)
	Delete(ctx context.Context, ref string) error
}

// Notifier receives successful-mutation events. Implementations must be safe
// to call from goroutines detached from the request.
type Notifier interface {
	NewFollower(ctx context.Context, followerID, targetID string)
	PostLiked(ctx context.Context, likerID, postID string)
	PostReplied(ctx context.Context, replierID, postID, text string)
}

// Service is the social core: follow-graph maintenance, engagement,
// denormalized-reply fan-out and feed resolution over the two stores.
type Service struct {
	users  storage.IdentityStore
	posts  storage.ContentStore
	images ImageStore
	notify Notifier
	log    *zap.Logger
}

func NewService(users storage.IdentityStore, posts storage.ContentStore, images ImageStore, notify Notifier, log *zap.Logger) *Service {
	if images == nil {
		images = NopImageStore{}
	}
	if notify == nil {
		notify = NopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, posts: posts, images: images, notify: notify, log: log}
}

// NopImageStore keeps whatever reference it is given and uploads nothing.
type NopImageStore struct{}

func (NopImageStore) Upload(ctx context.Context, data string) (string, error) { return data, nil }

func (NopImageStore) Delete(ctx context.Context, ref string) error { return nil }

// NopNotifier drops all events.
type NopNotifier struct{}

func (NopNotifier) NewFollower(ctx context.Context, followerID, targetID string) {}

func (NopNotifier) PostLiked(ctx context.Context, likerID, postID string) {}

func (NopNotifier) PostReplied(ctx context.Context, replierID, postID, text string) {}
