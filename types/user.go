package types

import "time"

// User represents a registered account on the blog.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Email is the address the user registered and logs in with.
	Email string `json:"email" db:"email"`

	// Name is the user's display name shown on posts and comments.
	Name string `json:"name" db:"name"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserWithRole pairs a user with the role currently assigned to them.
// RoleID falls back to DefaultRoleID when the user has no join row.
type UserWithRole struct {
	User
	RoleID   int  `json:"role_id"`
	Assigned bool `json:"assigned"`
}
