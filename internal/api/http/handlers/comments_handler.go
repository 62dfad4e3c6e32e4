package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
)

// CommentStore is what the comment endpoints need from the comment service.
type CommentStore interface {
	Paginate(ctx context.Context, postID int64, q domain.CursorQuery) (*domain.Page[domain.Comment], error)
	GetByID(ctx context.Context, postID, commentID int64) (*domain.Comment, error)
	Create(ctx context.Context, authorID, postID int64, text string) (*domain.Comment, error)
	Update(ctx context.Context, postID, commentID int64, text string) (*domain.Comment, error)
	Delete(ctx context.Context, postID, commentID int64) (int64, error)
}

// CommentsHandler manages /posts/:postId/comments.
type CommentsHandler struct {
	comments CommentStore
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(comments CommentStore) *CommentsHandler {
	return &CommentsHandler{comments: comments}
}

// List handles GET /posts/:postId/comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	postID, err := paramID(c, "postId")
	if err != nil {
		return err
	}
	q, err := dto.ParseCursorQuery(c)
	if err != nil {
		return err
	}
	page, err := h.comments.Paginate(c.UserContext(), postID, q)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPageResponse(c, q, page, dto.NewCommentResponse))
}

// Get handles GET /posts/:postId/comments/:commentId.
func (h *CommentsHandler) Get(c *fiber.Ctx) error {
	postID, commentID, err := commentParams(c)
	if err != nil {
		return err
	}
	comment, err := h.comments.GetByID(c.UserContext(), postID, commentID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCommentResponse(*comment))
}

// Create handles POST /posts/:postId/comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	me, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	postID, err := paramID(c, "postId")
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	comment, err := h.comments.Create(c.UserContext(), me.ID, postID, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewCommentResponse(*comment))
}

// Update handles PATCH /posts/:postId/comments/:commentId.
func (h *CommentsHandler) Update(c *fiber.Ctx) error {
	postID, commentID, err := commentParams(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	comment, err := h.comments.Update(c.UserContext(), postID, commentID, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCommentResponse(*comment))
}

// Delete handles DELETE /posts/:postId/comments/:commentId.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	postID, commentID, err := commentParams(c)
	if err != nil {
		return err
	}
	deleted, err := h.comments.Delete(c.UserContext(), postID, commentID)
	if err != nil {
		return err
	}
	return c.JSON(deleted)
}

func commentParams(c *fiber.Ctx) (int64, int64, error) {
	postID, err := paramID(c, "postId")
	if err != nil {
		return 0, 0, err
	}
	commentID, err := paramID(c, "commentId")
	if err != nil {
		return 0, 0, err
	}
	return postID, commentID, nil
}
