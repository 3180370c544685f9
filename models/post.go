package models

import "time"

// MaxTextLength caps post and reply text.
const MaxTextLength = 500

type Post struct {
	ID        string    `json:"id"`
	PostedBy  string    `json:"posted_by"`
	Text      string    `json:"text"`
	Img       string    `json:"img,omitempty"`
	Likes     []string  `json:"likes"`
	Replies   []Reply   `json:"replies"`
	CreatedAt time.Time `json:"created_at"`
}

// Reply is embedded in a Post, never stored on its own. Name and
// UserProfilePic are denormalized copies of the author's display fields;
// the User record stays authoritative.
type Reply struct {
	UserID         string    `json:"user_id"`
	Text           string    `json:"text"`
	Name           string    `json:"name"`
	UserProfilePic string    `json:"user_profile_pic"`
	CreatedAt      time.Time `json:"created_at"`
}

// LikedBy reports whether userID is in the post's liker set.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
