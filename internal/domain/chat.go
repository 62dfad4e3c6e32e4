package domain

import "time"

// Chat is a room shared by a set of users.
type Chat struct {
	ID        int64
	UserIDs   []int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is a single chat line.
type Message struct {
	ID        int64
	ChatID    int64
	AuthorID  int64
	Author    *User
	Message   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
