package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/spec-kit/blog-service/internal/domain"
)

// CommentRequest is the body of comment create and update.
type CommentRequest struct {
	Comment string `json:"comment"`
}

// Validate will run validation rules
func (r CommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Comment, validation.Required),
	)
}

// CommentResponse is the public projection of a comment.
type CommentResponse struct {
	ID        int64         `json:"id"`
	PostID    int64         `json:"postId"`
	Author    *UserResponse `json:"author,omitempty"`
	Comment   string        `json:"comment"`
	LikeCount int           `json:"likeCount"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(c domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		Author:    NewUserResponse(c.Author),
		Comment:   c.Comment,
		LikeCount: c.LikeCount,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
