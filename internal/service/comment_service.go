package service

import (
	"context"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// CommentService coordinates comment workflows.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	tx       repository.Transactor
}

// CommentDependencies bundles repositories for the comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	PostRepo    repository.PostRepository
	Transactor  repository.Transactor
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{comments: deps.CommentRepo, posts: deps.PostRepo, tx: deps.Transactor}
}

// Paginate lists comments of a post.
func (s *CommentService) Paginate(ctx context.Context, postID int64, q domain.CursorQuery) (*domain.Page[domain.Comment], error) {
	return s.comments.PaginateByPost(ctx, postID, q)
}

// GetByID returns a comment that belongs to postID.
func (s *CommentService) GetByID(ctx context.Context, postID, commentID int64) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, notFound(err, "comment")
	}
	if comment.PostID != postID {
		return nil, apperrors.NewNotFound("comment", nil)
	}
	return comment, nil
}

// Create adds a comment and bumps the post's comment count atomically.
func (s *CommentService) Create(ctx context.Context, authorID, postID int64, text string) (*domain.Comment, error) {
	comment := &domain.Comment{PostID: postID, AuthorID: authorID, Comment: text}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.comments.Create(ctx, comment); err != nil {
			return err
		}
		return notFound(s.posts.IncrementCommentCount(ctx, postID, 1), "post")
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// Update replaces the comment text.
func (s *CommentService) Update(ctx context.Context, postID, commentID int64, text string) (*domain.Comment, error) {
	comment, err := s.GetByID(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	comment.Comment = text
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment and decrements the post's comment count atomically.
func (s *CommentService) Delete(ctx context.Context, postID, commentID int64) (int64, error) {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.GetByID(ctx, postID, commentID); err != nil {
			return err
		}
		if err := s.comments.Delete(ctx, commentID); err != nil {
			return notFound(err, "comment")
		}
		return notFound(s.posts.IncrementCommentCount(ctx, postID, -1), "post")
	})
	if err != nil {
		return 0, err
	}
	return commentID, nil
}

// IsCommentMine is the ownership predicate for comment routes.
func (s *CommentService) IsCommentMine(ctx context.Context, userID, commentID int64) (bool, error) {
	return s.comments.IsAuthor(ctx, userID, commentID)
}
