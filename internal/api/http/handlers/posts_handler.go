package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// PostStore is what the post endpoints need from the post service.
type PostStore interface {
	Paginate(ctx context.Context, q domain.CursorQuery) (*domain.Page[domain.Post], error)
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	Create(ctx context.Context, authorID int64, input service.PostInput) (*domain.Post, error)
	GenerateRandom(ctx context.Context, authorID int64) error
	Update(ctx context.Context, id int64, input service.PostUpdateInput) (*domain.Post, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// PostsHandler manages post endpoints.
type PostsHandler struct {
	posts PostStore
}

// NewPostsHandler constructs handler.
func NewPostsHandler(posts PostStore) *PostsHandler {
	return &PostsHandler{posts: posts}
}

// List handles GET /posts.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	q, err := dto.ParseCursorQuery(c)
	if err != nil {
		return err
	}
	page, err := h.posts.Paginate(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPageResponse(c, q, page, dto.NewPostResponse))
}

// Get handles GET /posts/:postId.
func (h *PostsHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "postId")
	if err != nil {
		return err
	}
	post, err := h.posts.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPostResponse(*post))
}

// Create handles POST /posts.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	me, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreatePostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	post, err := h.posts.Create(c.UserContext(), me.ID, service.PostInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewPostResponse(*post))
}

// GenerateRandom handles POST /posts/random.
func (h *PostsHandler) GenerateRandom(c *fiber.Ctx) error {
	me, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	if err := h.posts.GenerateRandom(c.UserContext(), me.ID); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(true)
}

// Update handles PATCH /posts/:postId.
func (h *PostsHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "postId")
	if err != nil {
		return err
	}
	var req dto.UpdatePostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	post, err := h.posts.Update(c.UserContext(), id, service.PostUpdateInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPostResponse(*post))
}

// Delete handles DELETE /posts/:postId.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "postId")
	if err != nil {
		return err
	}
	deleted, err := h.posts.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(deleted)
}

// RequirePostExists rejects nested routes whose :postId is unknown.
func (h *PostsHandler) RequirePostExists(c *fiber.Ctx) error {
	id, err := paramID(c, "postId")
	if err != nil {
		return err
	}
	exists, err := h.posts.Exists(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewNotFound("post", nil)
	}
	return c.Next()
}
