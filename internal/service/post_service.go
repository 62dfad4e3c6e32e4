package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// RandomPostCount is how many demo posts GenerateRandom creates.
const RandomPostCount = 100

// PostInput describes post creation payload.
type PostInput struct {
	Title   string
	Content string
}

// PostUpdateInput applies only the non-empty fields.
type PostUpdateInput struct {
	Title   string
	Content string
}

// PostService coordinates post workflows.
type PostService struct {
	posts repository.PostRepository
	tx    repository.Transactor
}

// PostDependencies bundles repositories for the post service.
type PostDependencies struct {
	PostRepo   repository.PostRepository
	Transactor repository.Transactor
}

// NewPostService constructs the service.
func NewPostService(deps PostDependencies) *PostService {
	return &PostService{posts: deps.PostRepo, tx: deps.Transactor}
}

// Paginate lists posts with an id cursor.
func (s *PostService) Paginate(ctx context.Context, q domain.CursorQuery) (*domain.Page[domain.Post], error) {
	return s.posts.Paginate(ctx, q)
}

// GetByID returns a post with its author.
func (s *PostService) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "post")
	}
	return post, nil
}

// Create stores a new post authored by authorID.
func (s *PostService) Create(ctx context.Context, authorID int64, input PostInput) (*domain.Post, error) {
	post := &domain.Post{AuthorID: authorID, Title: input.Title, Content: input.Content}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, post.ID)
}

// GenerateRandom creates RandomPostCount demo posts in one transaction.
func (s *PostService) GenerateRandom(ctx context.Context, authorID int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for i := 0; i < RandomPostCount; i++ {
			post := &domain.Post{
				AuthorID: authorID,
				Title:    fmt.Sprintf("generated post title %d", i),
				Content:  fmt.Sprintf("generated post content %d", i),
			}
			if err := s.posts.Create(ctx, post); err != nil {
				return err
			}
		}
		return nil
	})
}

// Update patches title and/or content.
func (s *PostService) Update(ctx context.Context, id int64, input PostUpdateInput) (*domain.Post, error) {
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Title != "" {
		post.Title = input.Title
	}
	if input.Content != "" {
		post.Content = input.Content
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post and returns its id.
func (s *PostService) Delete(ctx context.Context, id int64) (int64, error) {
	if err := s.posts.Delete(ctx, id); err != nil {
		return 0, notFound(err, "post")
	}
	return id, nil
}

// Exists reports whether the post is present.
func (s *PostService) Exists(ctx context.Context, id int64) (bool, error) {
	return s.posts.Exists(ctx, id)
}

// IsPostMine is the ownership predicate for post routes.
func (s *PostService) IsPostMine(ctx context.Context, userID, postID int64) (bool, error) {
	return s.posts.IsAuthor(ctx, userID, postID)
}

// notFound maps missing rows to a NOT_FOUND domain error.
func notFound(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}
