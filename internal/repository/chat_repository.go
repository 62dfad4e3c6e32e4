package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

// ChatRepository persists chat rooms and their members.
type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat) error
	GetByID(ctx context.Context, id int64) (*domain.Chat, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Paginate(ctx context.Context, q domain.CursorQuery) (*domain.Page[domain.Chat], error)
}

type chatRepository struct {
	pool *pgxpool.Pool
}

// NewChatRepository constructs repository.
func NewChatRepository(pool *pgxpool.Pool) ChatRepository {
	return &chatRepository{pool: pool}
}

const chatSelect = `
        SELECT c.id, c.created_at, c.updated_at,
            COALESCE(ARRAY_AGG(cu.user_id ORDER BY cu.user_id) FILTER (WHERE cu.user_id IS NOT NULL), '{}')
        FROM chats c
        LEFT JOIN chat_users cu ON cu.chat_id = c.id`

// Create inserts the chat and its membership rows. Call inside a transaction.
func (r *chatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	q := conn(ctx, r.pool)
	if err := q.QueryRow(ctx,
		`INSERT INTO chats DEFAULT VALUES RETURNING id, created_at, updated_at`,
	).Scan(&chat.ID, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, userID := range chat.UserIDs {
		batch.Queue(`INSERT INTO chat_users (chat_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, chat.ID, userID)
	}
	if batch.Len() == 0 {
		return nil
	}
	return q.SendBatch(ctx, batch).Close()
}

func (r *chatRepository) GetByID(ctx context.Context, id int64) (*domain.Chat, error) {
	return scanChat(conn(ctx, r.pool).QueryRow(ctx, chatSelect+` WHERE c.id=$1 GROUP BY c.id`, id))
}

func (r *chatRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM chats WHERE id=$1)`, id).Scan(&exists)
	return exists, err
}

func (r *chatRepository) Paginate(ctx context.Context, q domain.CursorQuery) (*domain.Page[domain.Chat], error) {
	q = q.Normalize()
	where, order, args := cursorClause(q, "c.id", nil)

	rows, err := conn(ctx, r.pool).Query(ctx, chatSelect+` WHERE TRUE`+where+` GROUP BY c.id`+order, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := []domain.Chat{}
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, *chat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pageOf(chats, q.Take, func(c domain.Chat) int64 { return c.ID }), nil
}

func scanChat(row pgx.Row) (*domain.Chat, error) {
	var chat domain.Chat
	if err := row.Scan(&chat.ID, &chat.CreatedAt, &chat.UpdatedAt, &chat.UserIDs); err != nil {
		return nil, err
	}
	return &chat, nil
}
