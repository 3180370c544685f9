package social

import (
	"context"

	"threadloom.com/threadloom-backend/models"
)

// ResolveFeed returns the posts authored by anyone the user follows, newest
// first. Equal timestamps fall back to descending ID so repeated calls over
// unchanged data keep a stable order. An empty follow-set yields an empty
// feed, not an error.
func (s *Service) ResolveFeed(ctx context.Context, userID string) ([]*models.Post, error) {
	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return nil, wrapStore(err, "user not found")
	}
	if len(user.Following) == 0 {
		return []*models.Post{}, nil
	}

	posts, err := s.posts.PostsByAuthors(ctx, user.Following)
	if err != nil {
		return nil, upstream("feed query failed", err)
	}
	return posts, nil
}
