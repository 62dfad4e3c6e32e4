package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/spec-kit/blog-service/internal/domain"
)

// CreateChatFrame is the create_chat payload.
type CreateChatFrame struct {
	UserIDs []int64 `json:"userIds"`
}

// Validate will run validation rules
func (f CreateChatFrame) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.UserIDs, validation.Required),
	)
}

// EnterChatFrame is the enter_chat payload.
type EnterChatFrame struct {
	ChatIDs []int64 `json:"chatIds"`
}

// Validate will run validation rules
func (f EnterChatFrame) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.ChatIDs, validation.Required),
	)
}

// SendMessageFrame is the send_message payload.
type SendMessageFrame struct {
	ChatID  int64  `json:"chatId"`
	Message string `json:"message"`
}

// Validate will run validation rules
func (f SendMessageFrame) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.ChatID, validation.Required),
		validation.Field(&f.Message, validation.Required),
	)
}

// ChatResponse is the public projection of a chat.
type ChatResponse struct {
	ID        int64     `json:"id"`
	UserIDs   []int64   `json:"userIds"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewChatResponse maps a domain chat.
func NewChatResponse(c domain.Chat) ChatResponse {
	return ChatResponse{ID: c.ID, UserIDs: c.UserIDs, CreatedAt: c.CreatedAt}
}

// MessageResponse is the public projection of a chat message.
type MessageResponse struct {
	ID        int64         `json:"id"`
	ChatID    int64         `json:"chatId"`
	Author    *UserResponse `json:"author,omitempty"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"createdAt"`
}

// NewMessageResponse maps a domain message.
func NewMessageResponse(m domain.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Author:    NewUserResponse(m.Author),
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}
