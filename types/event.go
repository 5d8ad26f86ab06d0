package types

import "time"

// EventType names a domain event published to the message broker.
type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventPostCreated    EventType = "post.created"
	EventPostUpdated    EventType = "post.updated"
	EventPostDeleted    EventType = "post.deleted"
	EventCommentCreated EventType = "comment.created"
	EventRoleCreated    EventType = "role.created"
	EventRoleAssigned   EventType = "role.assigned"
)

// Event is the JSON payload carried by broker messages.
type Event struct {
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`

	// ActorID is the user that triggered the event, zero for anonymous.
	ActorID int `json:"actor_id,omitempty"`

	UserID    int `json:"user_id,omitempty"`
	PostID    int `json:"post_id,omitempty"`
	CommentID int `json:"comment_id,omitempty"`
	RoleID    int `json:"role_id,omitempty"`

	// Title carries the post title or role name, when relevant.
	Title string `json:"title,omitempty"`
}
