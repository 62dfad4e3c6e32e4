package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/domain"
)

// ChatStore is what the chat REST endpoints need from the chat service.
type ChatStore interface {
	Paginate(ctx context.Context, q domain.CursorQuery) (*domain.Page[domain.Chat], error)
	PaginateMessages(ctx context.Context, chatID int64, q domain.CursorQuery) (*domain.Page[domain.Message], error)
}

// ChatsHandler exposes chat history over HTTP.
type ChatsHandler struct {
	chats ChatStore
}

// NewChatsHandler constructs handler.
func NewChatsHandler(chats ChatStore) *ChatsHandler {
	return &ChatsHandler{chats: chats}
}

// List handles GET /chats.
func (h *ChatsHandler) List(c *fiber.Ctx) error {
	q, err := dto.ParseCursorQuery(c)
	if err != nil {
		return err
	}
	page, err := h.chats.Paginate(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPageResponse(c, q, page, dto.NewChatResponse))
}

// Messages handles GET /chats/:cid/messages.
func (h *ChatsHandler) Messages(c *fiber.Ctx) error {
	chatID, err := paramID(c, "cid")
	if err != nil {
		return err
	}
	q, err := dto.ParseCursorQuery(c)
	if err != nil {
		return err
	}
	page, err := h.chats.PaginateMessages(c.UserContext(), chatID, q)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPageResponse(c, q, page, dto.NewMessageResponse))
}
