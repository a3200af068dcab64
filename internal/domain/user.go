package domain

import (
	"context"
	"time"
)

// Role is the bot-level role stored for a user. It gates event creation and
// administrative actions; it is unrelated to Discord's own guild roles.
type Role string

const (
	RoleUser         Role = "user"
	RoleEventCreator Role = "event_creator"
	RoleAdmin        Role = "admin"
)

// ValidRole reports whether s names a known bot role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleUser, RoleEventCreator, RoleAdmin:
		return true
	}
	return false
}

// User represents a Discord user known to the bot, keyed by snowflake id.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanCreateEvents reports whether the user may create events.
func (u *User) CanCreateEvents() bool {
	return u.Role == RoleEventCreator || u.Role == RoleAdmin
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	// GetOrCreate returns the user with the given id, inserting a fresh
	// row with the member role when none exists. A stale stored username
	// is refreshed to the given one.
	GetOrCreate(ctx context.Context, id int64, username string) (*User, error)
	Get(ctx context.Context, id int64) (*User, error)
	SetRole(ctx context.Context, id int64, role Role) error
}

// UserService defines the business logic for user administration.
type UserService interface {
	GetOrCreate(ctx context.Context, id int64, username string) (*User, error)
	SetRole(ctx context.Context, id int64, username, role string) error
}
