package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// UserResponse is the public projection of a user; the hash never leaves.
type UserResponse struct {
	ID             int64       `json:"id"`
	Nickname       string      `json:"nickname"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	FollowerCount  int         `json:"followerCount"`
	FollowingCount int         `json:"followingCount"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:             u.ID,
		Nickname:       u.Nickname,
		Email:          u.Email,
		Role:           u.Role,
		FollowerCount:  u.FollowerCount,
		FollowingCount: u.FollowingCount,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// FollowerResponse lists one follower.
type FollowerResponse struct {
	ID          int64  `json:"id"`
	Nickname    string `json:"nickname"`
	IsConfirmed bool   `json:"isConfirmed"`
}

// NewFollowerResponses maps followers.
func NewFollowerResponses(followers []domain.Follower) []FollowerResponse {
	out := make([]FollowerResponse, 0, len(followers))
	for _, f := range followers {
		out = append(out, FollowerResponse{ID: f.ID, Nickname: f.Nickname, IsConfirmed: f.IsConfirmed})
	}
	return out
}
