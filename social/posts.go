package social

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"threadloom.com/threadloom-backend/models"
)

// CreatePost stores a new post for postedBy. The caller must be the author;
// an image payload, if present, is handed to the image store and only the
// returned reference is persisted.
func (s *Service) CreatePost(ctx context.Context, callerID, postedBy, text, imgData string) (*models.Post, error) {
	if postedBy == "" || strings.TrimSpace(text) == "" {
		return nil, invalidArgument("postedBy and text fields are required")
	}
	if len(text) > models.MaxTextLength {
		return nil, invalidArgument("post text is too long")
	}

	if _, err := s.users.UserByID(ctx, postedBy); err != nil {
		return nil, wrapStore(err, "user not found")
	}
	if postedBy != callerID {
		return nil, unauthorized("unauthorized to create post")
	}

	img := ""
	if imgData != "" {
		ref, err := s.images.Upload(ctx, imgData)
		if err != nil {
			return nil, upstream("image upload failed", err)
		}
		img = ref
	}

	post, err := s.posts.CreatePost(ctx, &models.Post{PostedBy: postedBy, Text: text, Img: img})
	if err != nil {
		return nil, upstream("failed to create post", err)
	}
	return post, nil
}

// Post returns a single post by ID.
func (s *Service) Post(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.posts.PostByID(ctx, postID)
	if err != nil {
		return nil, wrapStore(err, "post not found")
	}
	return post, nil
}

// DeletePost removes a post, owner only. The stored image object goes with
// it; a failed image delete is logged and does not keep the post alive.
func (s *Service) DeletePost(ctx context.Context, callerID, postID string) error {
	post, err := s.posts.PostByID(ctx, postID)
	if err != nil {
		return wrapStore(err, "post not found")
	}
	if post.PostedBy != callerID {
		return unauthorized("unauthorized to delete this post")
	}

	if post.Img != "" {
		if err := s.images.Delete(ctx, post.Img); err != nil {
			s.log.Error("failed to delete post image", zap.String("post", postID), zap.Error(err))
		}
	}

	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return wrapStore(err, "failed to delete post")
	}
	return nil
}

// PostsByUsername lists a user's own posts, newest first.
func (s *Service) PostsByUsername(ctx context.Context, username string) ([]*models.Post, error) {
	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return nil, wrapStore(err, "user not found")
	}
	posts, err := s.posts.PostsByAuthor(ctx, user.ID)
	if err != nil {
		return nil, upstream("post query failed", err)
	}
	return posts, nil
}

// Profile fetches a user by ID or, failing that, by username — profile pages
// are reachable through either.
func (s *Service) Profile(ctx context.Context, query string) (*models.User, error) {
	user, err := s.users.UserByID(ctx, query)
	if err != nil {
		user, err = s.users.UserByUsername(ctx, query)
	}
	if err != nil {
		return nil, wrapStore(err, "user not found")
	}
	user.Password = ""
	return user, nil
}
