package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

func TestCommentService_CountFollowsCreateAndDelete(t *testing.T) {
	posts := newMemoryPosts()
	comments := newMemoryComments()
	tx := &fakeTx{}
	svc := NewCommentService(CommentDependencies{CommentRepo: comments, PostRepo: posts, Transactor: tx})
	ctx := context.Background()

	post := &domain.Post{AuthorID: 1, Title: "t", Content: "c"}
	require.NoError(t, posts.Create(ctx, post))

	first, err := svc.Create(ctx, 2, post.ID, "hello")
	require.NoError(t, err)
	_, err = svc.Create(ctx, 3, post.ID, "again")
	require.NoError(t, err)
	assert.Equal(t, 2, posts.posts[post.ID].CommentCount)

	_, err = svc.Delete(ctx, post.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, posts.posts[post.ID].CommentCount)
	assert.Equal(t, 3, tx.calls)

	page, err := svc.Paginate(ctx, post.ID, domain.CursorQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
}

func TestCommentService_WrongPost(t *testing.T) {
	posts := newMemoryPosts()
	comments := newMemoryComments()
	svc := NewCommentService(CommentDependencies{CommentRepo: comments, PostRepo: posts, Transactor: &fakeTx{}})
	ctx := context.Background()

	a := &domain.Post{AuthorID: 1}
	b := &domain.Post{AuthorID: 1}
	require.NoError(t, posts.Create(ctx, a))
	require.NoError(t, posts.Create(ctx, b))

	comment, err := svc.Create(ctx, 2, a.ID, "hi")
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, b.ID, comment.ID)
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)

	_, err = svc.Delete(ctx, b.ID, comment.ID)
	require.Error(t, err)
	assert.Equal(t, 1, posts.posts[a.ID].CommentCount)
	assert.Equal(t, 0, posts.posts[b.ID].CommentCount)

	updated, err := svc.Update(ctx, a.ID, comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Comment)
}

func TestCommentService_CreateOnMissingPost(t *testing.T) {
	svc := NewCommentService(CommentDependencies{CommentRepo: newMemoryComments(), PostRepo: newMemoryPosts(), Transactor: &fakeTx{}})

	_, err := svc.Create(context.Background(), 1, 99, "hi")
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)
}
