package types

import "time"

// Comment is a reader's reply on a post.
type Comment struct {
	ID     int `json:"id" db:"id"`
	PostID int `json:"post_id" db:"post_id"`
	UserID int `json:"user_id" db:"user_id"`

	// Text is sanitized HTML.
	Text string `json:"text" db:"text"`

	// AuthorName and AuthorEmail are joined from the users table.
	// The email is only used to derive the avatar URL.
	AuthorName  string `json:"author_name" db:"-"`
	AuthorEmail string `json:"-" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
