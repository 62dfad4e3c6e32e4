package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
)

// UserDirectory is what the user endpoints need from the user service.
type UserDirectory interface {
	List(ctx context.Context) ([]domain.User, error)
	Followers(ctx context.Context, userID int64, includeNotConfirmed bool) ([]domain.Follower, error)
	Follow(ctx context.Context, followerID, followingID int64) error
	ConfirmFollow(ctx context.Context, followerID, me int64) error
	Unfollow(ctx context.Context, me, followingID int64) error
}

// UsersHandler exposes the user directory and the follow graph.
type UsersHandler struct {
	users UserDirectory
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users UserDirectory) *UsersHandler {
	return &UsersHandler{users: users}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(out)
}

// MyFollowers handles GET /users/follow/me.
func (h *UsersHandler) MyFollowers(c *fiber.Ctx) error {
	me, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	followers, err := h.users.Followers(c.UserContext(), me.ID, c.QueryBool("includeNotConfirmed", false))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFollowerResponses(followers))
}

// Follow handles POST /users/follow/:id.
func (h *UsersHandler) Follow(c *fiber.Ctx) error {
	me, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	target, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.Follow(c.UserContext(), me.ID, target); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(true)
}

// ConfirmFollow handles PATCH /users/follow/:id/confirm.
func (h *UsersHandler) ConfirmFollow(c *fiber.Ctx) error {
	me, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	follower, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.ConfirmFollow(c.UserContext(), follower, me.ID); err != nil {
		return err
	}
	return c.JSON(true)
}

// Unfollow handles DELETE /users/follow/:id.
func (h *UsersHandler) Unfollow(c *fiber.Ctx) error {
	me, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	target, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.Unfollow(c.UserContext(), me.ID, target); err != nil {
		return err
	}
	return c.JSON(true)
}
