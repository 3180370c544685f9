package social

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"threadloom.com/threadloom-backend/models"
)

// ToggleLike flips userID's membership in the post's liker set and returns
// the resulting state. Two racing likes from the same user collapse to a
// single membership in the set, which is the semantics of a like button, so
// no version check is needed here.
func (s *Service) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	if _, err := s.users.UserByID(ctx, userID); err != nil {
		return false, wrapStore(err, "user not found")
	}
	post, err := s.posts.PostByID(ctx, postID)
	if err != nil {
		return false, wrapStore(err, "post not found")
	}

	if post.LikedBy(userID) {
		if err := s.posts.RemoveLike(ctx, postID, userID); err != nil {
			return true, upstream("unlike failed", err)
		}
		return false, nil
	}

	if err := s.posts.AddLike(ctx, postID, userID); err != nil {
		return false, upstream("like failed", err)
	}
	if post.PostedBy != userID {
		go s.notify.PostLiked(context.Background(), userID, postID)
	}
	return true, nil
}

// AddReply appends a reply to the post, stamped with the author's display
// name and avatar as they are right now (read-through to the identity
// store). Later profile changes reach the stored copy via the fan-out.
func (s *Service) AddReply(ctx context.Context, postID, authorID, text string) (*models.Reply, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalidArgument("text field is required to reply on a post")
	}
	if len(text) > models.MaxTextLength {
		return nil, invalidArgument("reply text is too long")
	}

	author, err := s.users.UserByID(ctx, authorID)
	if err != nil {
		return nil, wrapStore(err, "user not found")
	}
	post, err := s.posts.PostByID(ctx, postID)
	if err != nil {
		return nil, wrapStore(err, "post not found")
	}

	reply := models.Reply{
		UserID:         authorID,
		Text:           text,
		Name:           author.Name,
		UserProfilePic: author.ProfilePic,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.posts.AppendReply(ctx, postID, reply); err != nil {
		return nil, upstream("reply failed", err)
	}
	s.log.Debug("reply added", zap.String("post", postID), zap.String("author", authorID))

	if post.PostedBy != authorID {
		go s.notify.PostReplied(context.Background(), authorID, postID, text)
	}
	return &reply, nil
}
