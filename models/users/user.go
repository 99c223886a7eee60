package users

import (
	"time"
)

// XPPerProject is awarded once when a mini-project is marked complete.
const XPPerProject = 50

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     *string   `json:"email" gorm:"uniqueIndex"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatarUrl"`
	Password  string    `json:"-"` // bcrypt hash, empty for OAuth-only accounts
	GitHubID  *string   `json:"-" gorm:"column:github_id;uniqueIndex"`
	XP        int       `json:"xp" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasPassword reports whether the account can sign in with a password.
func (u *User) HasPassword() bool {
	return u.Password != ""
}

func (u *User) EmailAddress() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// Public is the subset of a user returned by profile endpoints.
type Public struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	XP        int    `json:"xp"`
}

func (u *User) Public() Public {
	return Public{ID: u.ID, Email: u.EmailAddress(), Name: u.Name, AvatarURL: u.AvatarURL, XP: u.XP}
}
