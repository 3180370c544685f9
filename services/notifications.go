package services

import (
	"context"

	"go.uber.org/zap"
	"threadloom.com/threadloom-backend/pkg/logger"
	"threadloom.com/threadloom-backend/storage"
)

// PushNotifier implements social.Notifier over FCM. Every method is fired
// from a goroutine detached from the request, so failures only log.
type PushNotifier struct {
	users storage.IdentityStore
	posts storage.ContentStore
}

func NewPushNotifier(users storage.IdentityStore, posts storage.ContentStore) *PushNotifier {
	return &PushNotifier{users: users, posts: posts}
}

func (n *PushNotifier) NewFollower(ctx context.Context, followerID, targetID string) {
	follower, err := n.users.UserByID(ctx, followerID)
	if err != nil {
		logger.Get().Warn("follower lookup failed for push", zap.Error(err))
		return
	}

	n.send(ctx, targetID, "New Follower",
		displayName(follower.Name, follower.Username)+" started following you!",
		map[string]string{
			"type":        "new_follower",
			"follower_id": followerID,
		})
}

func (n *PushNotifier) PostLiked(ctx context.Context, likerID, postID string) {
	liker, err := n.users.UserByID(ctx, likerID)
	if err != nil {
		logger.Get().Warn("liker lookup failed for push", zap.Error(err))
		return
	}
	post, err := n.posts.PostByID(ctx, postID)
	if err != nil {
		logger.Get().Warn("post lookup failed for push", zap.Error(err))
		return
	}

	n.send(ctx, post.PostedBy, displayName(liker.Name, liker.Username)+" liked your post",
		truncate(post.Text, 100),
		map[string]string{
			"type":     "post_like",
			"post_id":  postID,
			"liker_id": likerID,
		})
}

func (n *PushNotifier) PostReplied(ctx context.Context, replierID, postID, text string) {
	replier, err := n.users.UserByID(ctx, replierID)
	if err != nil {
		logger.Get().Warn("replier lookup failed for push", zap.Error(err))
		return
	}
	post, err := n.posts.PostByID(ctx, postID)
	if err != nil {
		logger.Get().Warn("post lookup failed for push", zap.Error(err))
		return
	}

	n.send(ctx, post.PostedBy, displayName(replier.Name, replier.Username)+" replied to your post",
		truncate(text, 100),
		map[string]string{
			"type":       "post_reply",
			"post_id":    postID,
			"replier_id": replierID,
		})
}

func (n *PushNotifier) send(ctx context.Context, recipientID, title, body string, data map[string]string) {
	log := logger.Get()

	recipient, err := n.users.UserByID(ctx, recipientID)
	if err != nil {
		log.Warn("recipient lookup failed for push", zap.Error(err))
		return
	}
	if len(recipient.DeviceTokens) == 0 {
		return
	}

	_, _, dead, err := SendMultipleNotifications(ctx, recipient.DeviceTokens, title, body, data)
	if err != nil {
		log.Warn("push send failed", zap.String("recipient", recipientID), zap.Error(err))
		return
	}

	for _, token := range dead {
		if err := n.users.RemoveDeviceToken(ctx, token); err != nil {
			log.Warn("failed to prune dead device token", zap.Error(err))
		}
	}
}

func displayName(name, username string) string {
	if name != "" {
		return name
	}
	return username
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
