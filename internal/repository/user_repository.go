package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

// UserRepository defines persistence access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	IncrementFollowerCount(ctx context.Context, id int64, delta int) error
	IncrementFollowingCount(ctx context.Context, id int64, delta int) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, nickname, email, password, role, follower_count, following_count, created_at, updated_at`

// Create inserts the user; duplicate email or nickname map to typed errors.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (nickname, email, password, role)
        VALUES ($1, $2, $3, $4)
        RETURNING id, follower_count, following_count, created_at, updated_at`

	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		user.Nickname,
		user.Email,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID, &user.FollowerCount, &user.FollowingCount, &user.CreatedAt, &user.UpdatedAt)
	if constraint, ok := uniqueConstraint(err); ok {
		switch constraint {
		case "users_nickname_key":
			return ErrDuplicateNickname
		default:
			return ErrDuplicateEmail
		}
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, query, email))
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *userRepository) IncrementFollowerCount(ctx context.Context, id int64, delta int) error {
	const query = `UPDATE users SET follower_count = follower_count + $1, updated_at=NOW() WHERE id=$2`
	return execAffecting(ctx, conn(ctx, r.pool), query, delta, id)
}

func (r *userRepository) IncrementFollowingCount(ctx context.Context, id int64, delta int) error {
	const query = `UPDATE users SET following_count = following_count + $1, updated_at=NOW() WHERE id=$2`
	return execAffecting(ctx, conn(ctx, r.pool), query, delta, id)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Nickname,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.FollowerCount,
		&user.FollowingCount,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

// execAffecting runs an update and reports pgx.ErrNoRows when nothing matched.
func execAffecting(ctx context.Context, q Querier, query string, args ...any) error {
	cmd, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
