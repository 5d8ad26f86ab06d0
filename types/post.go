package types

// PostDateLayout is the layout used for the stored post date, e.g. "August 24, 2021".
const PostDateLayout = "January 02, 2006"

// Post represents a blog post.
type Post struct {
	// ID is the unique identifier of the post.
	ID int `json:"id" db:"id"`

	// AuthorID references the user that wrote the post.
	AuthorID int `json:"author_id" db:"author_id"`

	// AuthorName is joined from the users table for display.
	AuthorName string `json:"author_name" db:"-"`

	// Title is unique across all posts.
	Title string `json:"title" db:"title"`

	Subtitle string `json:"subtitle" db:"subtitle"`

	// Date is the creation date formatted with PostDateLayout.
	Date string `json:"date" db:"date"`

	// Body is sanitized HTML produced by the rich text editor.
	Body string `json:"body" db:"body"`

	// ImageURL points at the header image of the post.
	ImageURL string `json:"img_url" db:"img_url"`
}
