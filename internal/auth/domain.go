package auth

import "time"

// User represents a registered account. PasswordHash never leaves the
// auth package; PublicView is the only outward representation.
type User struct {
	ID           int64
	Email        string
	Username     *string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the projection returned from signup.
type PublicUser struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Username *string `json:"username"`
}

// PublicView strips credential material from the record.
func (u *User) PublicView() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Username: u.Username}
}
