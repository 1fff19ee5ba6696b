package domain

import "time"

// User represents an authenticated account.
type User struct {
	Timestamps
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Stored hashed, never serialized
	IsRoot       bool      `json:"is_root"`
	LastLoginAt  time.Time `json:"last_login_at,omitempty"`
}

// IsAdmin returns true if the user has administrative privileges.
// The first registered account becomes root and is the only admin.
func (u *User) IsAdmin() bool {
	return u.IsRoot
}
