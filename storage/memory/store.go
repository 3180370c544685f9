package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"threadloom.com/threadloom-backend/models"
	"threadloom.com/threadloom-backend/storage"
)

// Store keeps users and posts in process memory. It backs the test suite and
// FCM-less dev runs; every method holds the lock for its whole critical
// section, which gives the same per-record atomicity the Postgres store gets
// from single-row statements.
type Store struct {
	mu         sync.RWMutex
	users      map[string]*models.User
	userByName map[string]string // username -> user ID
	posts      map[string]*models.Post
}

func New() *Store {
	return &Store{
		users:      make(map[string]*models.User),
		userByName: make(map[string]string),
		posts:      make(map[string]*models.Post),
	}
}

// === IdentityStore ===

func (s *Store) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.userByName[u.Username]; taken {
		return nil, storage.ErrAlreadyExists
	}
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return nil, storage.ErrAlreadyExists
		}
	}

	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	if u.Followers == nil {
		u.Followers = []string{}
	}
	if u.Following == nil {
		u.Following = []string{}
	}
	s.users[u.ID] = cloneUser(u)
	s.userByName[u.Username] = u.ID
	return cloneUser(u), nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return cloneUser(u), nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userByName[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, storage.ErrNotFound)
	}
	return cloneUser(s.users[id]), nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, upd storage.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}

	if upd.Username != nil && *upd.Username != u.Username {
		if _, taken := s.userByName[*upd.Username]; taken {
			return nil, storage.ErrAlreadyExists
		}
		delete(s.userByName, u.Username)
		u.Username = *upd.Username
		s.userByName[u.Username] = id
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.ProfilePic != nil {
		u.ProfilePic = *upd.ProfilePic
	}
	return cloneUser(u), nil
}

func (s *Store) AddFollower(ctx context.Context, userID, followerID string) error {
	return s.mutateUser(userID, func(u *models.User) {
		u.Followers = addToSet(u.Followers, followerID)
	})
}

func (s *Store) RemoveFollower(ctx context.Context, userID, followerID string) error {
	return s.mutateUser(userID, func(u *models.User) {
		u.Followers = removeFromSet(u.Followers, followerID)
	})
}

func (s *Store) AddFollowing(ctx context.Context, userID, followingID string) error {
	return s.mutateUser(userID, func(u *models.User) {
		u.Following = addToSet(u.Following, followingID)
	})
}

func (s *Store) RemoveFollowing(ctx context.Context, userID, followingID string) error {
	return s.mutateUser(userID, func(u *models.User) {
		u.Following = removeFromSet(u.Following, followingID)
	})
}

func (s *Store) AddDeviceToken(ctx context.Context, userID, token string) error {
	return s.mutateUser(userID, func(u *models.User) {
		u.DeviceTokens = addToSet(u.DeviceTokens, token)
	})
}

func (s *Store) RemoveDeviceToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		u.DeviceTokens = removeFromSet(u.DeviceTokens, token)
	}
	return nil
}

func (s *Store) AllUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *Store) mutateUser(userID string, fn func(*models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}
	fn(u)
	return nil
}

// === ContentStore ===

func (s *Store) CreatePost(ctx context.Context, p *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Replies == nil {
		p.Replies = []models.Reply{}
	}
	s.posts[p.ID] = clonePost(p)
	return clonePost(p), nil
}

func (s *Store) PostByID(ctx context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, storage.ErrNotFound)
	}
	return clonePost(p), nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return fmt.Errorf("post %s: %w", id, storage.ErrNotFound)
	}
	delete(s.posts, id)
	return nil
}

func (s *Store) PostsByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	return s.PostsByAuthors(ctx, []string{authorID})
}

func (s *Store) PostsByAuthors(ctx context.Context, authorIDs []string) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	authors := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}

	posts := []*models.Post{}
	for _, p := range s.posts {
		if authors[p.PostedBy] {
			posts = append(posts, clonePost(p))
		}
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

func (s *Store) AddLike(ctx context.Context, postID, userID string) error {
	return s.mutatePost(postID, func(p *models.Post) {
		p.Likes = addToSet(p.Likes, userID)
	})
}

func (s *Store) RemoveLike(ctx context.Context, postID, userID string) error {
	return s.mutatePost(postID, func(p *models.Post) {
		p.Likes = removeFromSet(p.Likes, userID)
	})
}

func (s *Store) AppendReply(ctx context.Context, postID string, r models.Reply) error {
	return s.mutatePost(postID, func(p *models.Post) {
		p.Replies = append(p.Replies, r)
	})
}

func (s *Store) UpdateReplyProfiles(ctx context.Context, userID, name, profilePic string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for _, p := range s.posts {
		for i := range p.Replies {
			if p.Replies[i].UserID == userID {
				p.Replies[i].Name = name
				p.Replies[i].UserProfilePic = profilePic
				updated++
			}
		}
	}
	return updated, nil
}

func (s *Store) AllPosts(ctx context.Context) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, clonePost(p))
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

func (s *Store) mutatePost(postID string, fn func(*models.Post)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return fmt.Errorf("post %s: %w", postID, storage.ErrNotFound)
	}
	fn(p)
	return nil
}

// === helpers ===

func sortPostsNewestFirst(posts []*models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func addToSet(set []string, member string) []string {
	for _, m := range set {
		if m == member {
			return set
		}
	}
	return append(set, member)
}

func removeFromSet(set []string, member string) []string {
	out := set[:0]
	for _, m := range set {
		if m != member {
			out = append(out, m)
		}
	}
	return out
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Followers = append([]string{}, u.Followers...)
	c.Following = append([]string{}, u.Following...)
	c.DeviceTokens = append([]string{}, u.DeviceTokens...)
	return &c
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Likes = append([]string{}, p.Likes...)
	c.Replies = append([]models.Reply{}, p.Replies...)
	return &c
}
