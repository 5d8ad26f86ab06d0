package types

const (
	// AdminRoleID is the seeded role that grants post editing and user management.
	AdminRoleID = 1

	// AuthorRoleID is the seeded role for regular writers.
	AuthorRoleID = 2

	// DefaultRoleID is assigned at registration and shown for users
	// that have no role assignment yet.
	DefaultRoleID = 3

	// OwnerUserID is the bootstrap account. It is always treated as an admin
	// so a fresh install can be administered before any role is assigned.
	OwnerUserID = 1
)

// Role is a named category of users (the "user type").
type Role struct {
	// ID is the unique identifier of the role.
	ID int `json:"id" db:"id"`

	// Name is unique and compared case-sensitively.
	Name string `json:"name" db:"name"`

	// Description is free text shown next to the role.
	Description string `json:"description" db:"description"`
}
