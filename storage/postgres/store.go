package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"threadloom.com/threadloom-backend/models"
	"threadloom.com/threadloom-backend/storage"
)

// Store persists users and posts in Postgres. Follower, following, liker and
// device-token sets live as text[] columns mutated by single-row UPDATEs, so
// every set operation is atomic per record and no operation spans two rows
// in one statement.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const userColumns = `id, username, name, email, password, bio, profile_pic,
	followers, following, device_tokens, created_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.Password, &u.Bio,
		&u.ProfilePic, pq.Array(&u.Followers), pq.Array(&u.Following),
		pq.Array(&u.DeviceTokens), &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// === IdentityStore ===

func (s *Store) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	u.ID = uuid.NewString()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, username, name, email, password, bio, profile_pic)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		u.ID, u.Username, u.Name, u.Email, u.Password, u.Bio, u.ProfilePic,
	).Scan(&u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrAlreadyExists
		}
		return nil, err
	}
	u.Followers = []string{}
	u.Following = []string{}
	return u, nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return u, err
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", username, storage.ErrNotFound)
	}
	return u, err
}

func (s *Store) UpdateUser(ctx context.Context, id string, upd storage.UserUpdate) (*models.User, error) {
	setClauses := []string{}
	args := []interface{}{}
	i := 1

	add := func(column string, value *string) {
		if value != nil {
			setClauses = append(setClauses, column+" = $"+strconv.Itoa(i))
			args = append(args, *value)
			i++
		}
	}
	add("username", upd.Username)
	add("name", upd.Name)
	add("email", upd.Email)
	add("password", upd.Password)
	add("bio", upd.Bio)
	add("profile_pic", upd.ProfilePic)

	if len(setClauses) > 0 {
		sqlStr := "UPDATE users SET " + strings.Join(setClauses, ", ") +
			" WHERE id = $" + strconv.Itoa(i)
		args = append(args, id)

		result, err := s.db.ExecContext(ctx, sqlStr, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, storage.ErrAlreadyExists
			}
			return nil, err
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
		}
	}

	return s.UserByID(ctx, id)
}

func (s *Store) AddFollower(ctx context.Context, userID, followerID string) error {
	return s.addToUserSet(ctx, "followers", userID, followerID)
}

func (s *Store) RemoveFollower(ctx context.Context, userID, followerID string) error {
	return s.removeFromUserSet(ctx, "followers", userID, followerID)
}

func (s *Store) AddFollowing(ctx context.Context, userID, followingID string) error {
	return s.addToUserSet(ctx, "following", userID, followingID)
}

func (s *Store) RemoveFollowing(ctx context.Context, userID, followingID string) error {
	return s.removeFromUserSet(ctx, "following", userID, followingID)
}

func (s *Store) AddDeviceToken(ctx context.Context, userID, token string) error {
	return s.addToUserSet(ctx, "device_tokens", userID, token)
}

func (s *Store) RemoveDeviceToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET device_tokens = array_remove(device_tokens, $1)
		WHERE $1 = ANY(device_tokens)`, token)
	return err
}

func (s *Store) AllUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// addToUserSet appends member to a text[] column unless already present. The
// guard lives in the WHERE clause, so the check and the append are one
// single-row statement.
func (s *Store) addToUserSet(ctx context.Context, column, userID, member string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET `+column+` = array_append(`+column+`, $2)
		WHERE id = $1 AND NOT ($2 = ANY(`+column+`))`,
		userID, member)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return s.userExists(ctx, userID)
	}
	return nil
}

func (s *Store) removeFromUserSet(ctx context.Context, column, userID, member string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET `+column+` = array_remove(`+column+`, $2)
		WHERE id = $1`,
		userID, member)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) userExists(ctx context.Context, userID string) error {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}
	return nil
}

// === ContentStore ===

func (s *Store) CreatePost(ctx context.Context, p *models.Post) (*models.Post, error) {
	p.ID = uuid.NewString()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (id, posted_by, text, img)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		p.ID, p.PostedBy, p.Text, p.Img,
	).Scan(&p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("user %s: %w", p.PostedBy, storage.ErrNotFound)
		}
		return nil, err
	}
	p.Likes = []string{}
	p.Replies = []models.Reply{}
	return p, nil
}

func (s *Store) PostByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	err := s.db.QueryRowContext(ctx, `
		SELECT id, posted_by, text, img, likes, created_at
		FROM posts WHERE id = $1`, id,
	).Scan(&p.ID, &p.PostedBy, &p.Text, &p.Img, pq.Array(&p.Likes), &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("post %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	replies, err := s.repliesForPosts(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	p.Replies = replies[id]
	if p.Replies == nil {
		p.Replies = []models.Reply{}
	}
	return &p, nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("post %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) PostsByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	return s.PostsByAuthors(ctx, []string{authorID})
}

func (s *Store) PostsByAuthors(ctx context.Context, authorIDs []string) ([]*models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, posted_by, text, img, likes, created_at
		FROM posts
		WHERE posted_by = ANY($1)
		ORDER BY created_at DESC, id DESC`,
		pq.Array(authorIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*models.Post{}
	ids := []string{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.PostedBy, &p.Text, &p.Img,
			pq.Array(&p.Likes), &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Replies = []models.Reply{}
		posts = append(posts, &p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		replies, err := s.repliesForPosts(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range posts {
			if r, ok := replies[p.ID]; ok {
				p.Replies = r
			}
		}
	}
	return posts, nil
}

func (s *Store) AddLike(ctx context.Context, postID, userID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE posts SET likes = array_append(likes, $2)
		WHERE id = $1 AND NOT ($2 = ANY(likes))`,
		postID, userID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return s.postExists(ctx, postID)
	}
	return nil
}

func (s *Store) RemoveLike(ctx context.Context, postID, userID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE posts SET likes = array_remove(likes, $2)
		WHERE id = $1`,
		postID, userID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("post %s: %w", postID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) AppendReply(ctx context.Context, postID string, r models.Reply) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO replies (post_id, user_id, text, name, user_profile_pic, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		postID, r.UserID, r.Text, r.Name, r.UserProfilePic, r.CreatedAt)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("post %s: %w", postID, storage.ErrNotFound)
	}
	return err
}

func (s *Store) UpdateReplyProfiles(ctx context.Context, userID, name, profilePic string) (int, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE replies SET name = $2, user_profile_pic = $3
		WHERE user_id = $1`,
		userID, name, profilePic)
	if err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

func (s *Store) AllPosts(ctx context.Context) ([]*models.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT posted_by FROM posts GROUP BY posted_by`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return s.PostsByAuthors(ctx, authors)
}

func (s *Store) postExists(ctx context.Context, postID string) error {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("post %s: %w", postID, storage.ErrNotFound)
	}
	return nil
}

// repliesForPosts loads replies for the given posts in insertion order
// (serial id ascending).
func (s *Store) repliesForPosts(ctx context.Context, postIDs []string) (map[string][]models.Reply, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT post_id, user_id, text, name, user_profile_pic, created_at
		FROM replies
		WHERE post_id = ANY($1)
		ORDER BY id ASC`,
		pq.Array(postIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	replies := make(map[string][]models.Reply)
	for rows.Next() {
		var postID string
		var r models.Reply
		if err := rows.Scan(&postID, &r.UserID, &r.Text, &r.Name,
			&r.UserProfilePic, &r.CreatedAt); err != nil {
			return nil, err
		}
		replies[postID] = append(replies[postID], r)
	}
	return replies, rows.Err()
}

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23503"
}
