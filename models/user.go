package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Password     string    `json:"password,omitempty"`
	Bio          string    `json:"bio"`
	ProfilePic   string    `json:"profile_pic"`
	Followers    []string  `json:"followers"`
	Following    []string  `json:"following"`
	DeviceTokens []string  `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsFollowing reports whether the user currently follows targetID.
func (u *User) IsFollowing(targetID string) bool {
	for _, id := range u.Following {
		if id == targetID {
			return true
		}
	}
	return false
}
