package domain

import "time"

// Post is a blog entry written by a user.
type Post struct {
	ID           int64
	AuthorID     int64
	Author       *User
	Title        string
	Content      string
	LikeCount    int
	CommentCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Comment belongs to exactly one post.
type Comment struct {
	ID        int64
	PostID    int64
	AuthorID  int64
	Author    *User
	Comment   string
	LikeCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}
