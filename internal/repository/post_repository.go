package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

// PostRepository encapsulates post persistence.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	Exists(ctx context.Context, id int64) (bool, error)
	IsAuthor(ctx context.Context, userID, postID int64) (bool, error)
	Paginate(ctx context.Context, q domain.CursorQuery) (*domain.Page[domain.Post], error)
	IncrementCommentCount(ctx context.Context, id int64, delta int) error
}

type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository instantiates repository.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

const postSelect = `
        SELECT p.id, p.author_id, p.title, p.content, p.like_count, p.comment_count, p.created_at, p.updated_at,
            u.id, u.nickname, u.email, u.role
        FROM posts p
        JOIN users u ON u.id = p.author_id`

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	const query = `
        INSERT INTO posts (author_id, title, content)
        VALUES ($1, $2, $3)
        RETURNING id, like_count, comment_count, created_at, updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		post.AuthorID,
		post.Title,
		post.Content,
	).Scan(&post.ID, &post.LikeCount, &post.CommentCount, &post.CreatedAt, &post.UpdatedAt)
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	const query = `
        UPDATE posts SET title=$1, content=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query, post.Title, post.Content, post.ID).Scan(&post.UpdatedAt)
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, conn(ctx, r.pool), `DELETE FROM posts WHERE id=$1`, id)
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	return scanPost(conn(ctx, r.pool).QueryRow(ctx, postSelect+` WHERE p.id=$1`, id))
}

func (r *postRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id=$1)`, id).Scan(&exists)
	return exists, err
}

func (r *postRepository) IsAuthor(ctx context.Context, userID, postID int64) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE id=$1 AND author_id=$2)`, postID, userID,
	).Scan(&exists)
	return exists, err
}

func (r *postRepository) Paginate(ctx context.Context, q domain.CursorQuery) (*domain.Page[domain.Post], error) {
	q = q.Normalize()
	where, order, args := cursorClause(q, "p.id", nil)

	rows, err := conn(ctx, r.pool).Query(ctx, postSelect+` WHERE TRUE`+where+order, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pageOf(posts, q.Take, func(p domain.Post) int64 { return p.ID }), nil
}

func (r *postRepository) IncrementCommentCount(ctx context.Context, id int64, delta int) error {
	const query = `UPDATE posts SET comment_count = comment_count + $1 WHERE id=$2`
	return execAffecting(ctx, conn(ctx, r.pool), query, delta, id)
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	var author domain.User
	if err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.LikeCount,
		&post.CommentCount,
		&post.CreatedAt,
		&post.UpdatedAt,
		&author.ID,
		&author.Nickname,
		&author.Email,
		&author.Role,
	); err != nil {
		return nil, err
	}
	post.Author = &author
	return &post, nil
}
