package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

// CommentRepository persists post comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	IsAuthor(ctx context.Context, userID, commentID int64) (bool, error)
	PaginateByPost(ctx context.Context, postID int64, q domain.CursorQuery) (*domain.Page[domain.Comment], error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository constructs repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentSelect = `
        SELECT c.id, c.post_id, c.author_id, c.comment, c.like_count, c.created_at, c.updated_at,
            u.id, u.nickname, u.email, u.role
        FROM comments c
        JOIN users u ON u.id = c.author_id`

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (post_id, author_id, comment)
        VALUES ($1, $2, $3)
        RETURNING id, like_count, created_at, updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		comment.PostID,
		comment.AuthorID,
		comment.Comment,
	).Scan(&comment.ID, &comment.LikeCount, &comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	const query = `
        UPDATE comments SET comment=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query, comment.Comment, comment.ID).Scan(&comment.UpdatedAt)
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, conn(ctx, r.pool), `DELETE FROM comments WHERE id=$1`, id)
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	return scanComment(conn(ctx, r.pool).QueryRow(ctx, commentSelect+` WHERE c.id=$1`, id))
}

func (r *commentRepository) IsAuthor(ctx context.Context, userID, commentID int64) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM comments WHERE id=$1 AND author_id=$2)`, commentID, userID,
	).Scan(&exists)
	return exists, err
}

func (r *commentRepository) PaginateByPost(ctx context.Context, postID int64, q domain.CursorQuery) (*domain.Page[domain.Comment], error) {
	q = q.Normalize()
	where, order, args := cursorClause(q, "c.id", []any{postID})

	rows, err := conn(ctx, r.pool).Query(ctx, commentSelect+` WHERE c.post_id=$1`+where+order, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pageOf(comments, q.Take, func(c domain.Comment) int64 { return c.ID }), nil
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var comment domain.Comment
	var author domain.User
	if err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Comment,
		&comment.LikeCount,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&author.ID,
		&author.Nickname,
		&author.Email,
		&author.Role,
	); err != nil {
		return nil, err
	}
	comment.Author = &author
	return &comment, nil
}
