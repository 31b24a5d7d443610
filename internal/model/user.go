package model

import "time"

// User represents an authentication user.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated requester, passed explicitly through
// every call that needs it.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Identity returns the user's identity.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username}
}
