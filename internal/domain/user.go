package domain

import "time"

// Role controls access to administrative operations.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is the domain model for registered accounts.
type User struct {
	ID             int64
	Nickname       string
	Email          string
	PasswordHash   string
	Role           Role
	FollowerCount  int
	FollowingCount int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Follow is a directed edge in the follow graph.
type Follow struct {
	ID          int64
	FollowerID  int64
	FollowingID int64
	IsConfirmed bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Follower describes one follower of a user.
type Follower struct {
	ID          int64
	Nickname    string
	IsConfirmed bool
}
