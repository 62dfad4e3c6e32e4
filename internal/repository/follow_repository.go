package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

// FollowRepository manages the follow graph.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followingID int64) error
	Get(ctx context.Context, followerID, followingID int64) (*domain.Follow, error)
	Confirm(ctx context.Context, id int64) error
	Delete(ctx context.Context, followerID, followingID int64) (int64, error)
	ListFollowers(ctx context.Context, followingID int64, includeNotConfirmed bool) ([]domain.Follower, error)
}

type followRepository struct {
	pool *pgxpool.Pool
}

// NewFollowRepository constructs repository.
func NewFollowRepository(pool *pgxpool.Pool) FollowRepository {
	return &followRepository{pool: pool}
}

func (r *followRepository) Create(ctx context.Context, followerID, followingID int64) error {
	const query = `
        INSERT INTO user_followers (follower_id, following_id)
        VALUES ($1, $2)`
	_, err := conn(ctx, r.pool).Exec(ctx, query, followerID, followingID)
	if _, ok := uniqueConstraint(err); ok {
		return ErrDuplicateFollow
	}
	return err
}

func (r *followRepository) Get(ctx context.Context, followerID, followingID int64) (*domain.Follow, error) {
	const query = `
        SELECT id, follower_id, following_id, is_confirmed, created_at, updated_at
        FROM user_followers WHERE follower_id=$1 AND following_id=$2`
	var f domain.Follow
	if err := conn(ctx, r.pool).QueryRow(ctx, query, followerID, followingID).Scan(
		&f.ID,
		&f.FollowerID,
		&f.FollowingID,
		&f.IsConfirmed,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *followRepository) Confirm(ctx context.Context, id int64) error {
	const query = `UPDATE user_followers SET is_confirmed=TRUE, updated_at=NOW() WHERE id=$1`
	return execAffecting(ctx, conn(ctx, r.pool), query, id)
}

// Delete removes the edge and returns how many rows went away.
func (r *followRepository) Delete(ctx context.Context, followerID, followingID int64) (int64, error) {
	const query = `DELETE FROM user_followers WHERE follower_id=$1 AND following_id=$2`
	cmd, err := conn(ctx, r.pool).Exec(ctx, query, followerID, followingID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *followRepository) ListFollowers(ctx context.Context, followingID int64, includeNotConfirmed bool) ([]domain.Follower, error) {
	query := `
        SELECT u.id, u.nickname, f.is_confirmed
        FROM user_followers f
        JOIN users u ON u.id = f.follower_id
        WHERE f.following_id=$1`
	if !includeNotConfirmed {
		query += ` AND f.is_confirmed`
	}
	query += ` ORDER BY f.id`

	rows, err := conn(ctx, r.pool).Query(ctx, query, followingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	followers := []domain.Follower{}
	for rows.Next() {
		var f domain.Follower
		if err := rows.Scan(&f.ID, &f.Nickname, &f.IsConfirmed); err != nil {
			return nil, err
		}
		followers = append(followers, f)
	}
	return followers, rows.Err()
}
