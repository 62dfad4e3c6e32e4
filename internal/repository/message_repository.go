package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

// MessageRepository persists chat messages.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	PaginateByChat(ctx context.Context, chatID int64, q domain.CursorQuery) (*domain.Page[domain.Message], error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository constructs repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	const query = `
        INSERT INTO messages (chat_id, author_id, message)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		message.ChatID,
		message.AuthorID,
		message.Message,
	).Scan(&message.ID, &message.CreatedAt, &message.UpdatedAt)
}

func (r *messageRepository) PaginateByChat(ctx context.Context, chatID int64, q domain.CursorQuery) (*domain.Page[domain.Message], error) {
	q = q.Normalize()
	where, order, args := cursorClause(q, "m.id", []any{chatID})

	const base = `
        SELECT m.id, m.chat_id, m.author_id, m.message, m.created_at, m.updated_at,
            u.id, u.nickname, u.email, u.role
        FROM messages m
        JOIN users u ON u.id = m.author_id
        WHERE m.chat_id=$1`

	rows, err := conn(ctx, r.pool).Query(ctx, base+where+order, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pageOf(messages, q.Take, func(m domain.Message) int64 { return m.ID }), nil
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var msg domain.Message
	var author domain.User
	if err := row.Scan(
		&msg.ID,
		&msg.ChatID,
		&msg.AuthorID,
		&msg.Message,
		&msg.CreatedAt,
		&msg.UpdatedAt,
		&author.ID,
		&author.Nickname,
		&author.Email,
		&author.Role,
	); err != nil {
		return nil, err
	}
	msg.Author = &author
	return &msg, nil
}
