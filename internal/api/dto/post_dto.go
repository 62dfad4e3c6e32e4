package dto

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/spec-kit/blog-service/internal/domain"
)

// CreatePostRequest is the body of POST /posts.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate will run validation rules
func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Content, validation.Required),
	)
}

var errBlank = errors.New("cannot be blank")

// UpdatePostRequest is the body of PATCH /posts/:postId. Empty fields are kept.
type UpdatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate requires at least one field.
func (r UpdatePostRequest) Validate() error {
	if r.Title == "" && r.Content == "" {
		return validation.Errors{"title": errBlank, "content": errBlank}
	}
	return nil
}

// PostResponse is the public projection of a post.
type PostResponse struct {
	ID           int64         `json:"id"`
	Author       *UserResponse `json:"author,omitempty"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	LikeCount    int           `json:"likeCount"`
	CommentCount int           `json:"commentCount"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// NewPostResponse maps a domain post.
func NewPostResponse(p domain.Post) PostResponse {
	return PostResponse{
		ID:           p.ID,
		Author:       NewUserResponse(p.Author),
		Title:        p.Title,
		Content:      p.Content,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
