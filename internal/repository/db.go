package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Transactor runs fn inside a database transaction. Repositories called with
// the context passed to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

type pgTransactor struct {
	pool *pgxpool.Pool
}

// NewTransactor returns a Postgres-backed transactor.
func NewTransactor(pool *pgxpool.Pool) Transactor {
	return &pgTransactor{pool: pool}
}

func (t *pgTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}
	return pgx.BeginFunc(ctx, t.pool, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction bound to ctx, or the pool.
func conn(ctx context.Context, pool *pgxpool.Pool) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// cursorClause renders the id-cursor filter (" AND ...") and the
// " ORDER BY ... LIMIT ..." tail. Placeholders continue after args.
func cursorClause(q domain.CursorQuery, column string, args []any) (string, string, []any) {
	q = q.Normalize()

	var where strings.Builder
	if q.MoreThan != nil {
		args = append(args, *q.MoreThan)
		fmt.Fprintf(&where, " AND %s > $%d", column, len(args))
	}
	if q.LessThan != nil {
		args = append(args, *q.LessThan)
		fmt.Fprintf(&where, " AND %s < $%d", column, len(args))
	}
	args = append(args, q.Take)
	order := fmt.Sprintf(" ORDER BY %s %s LIMIT $%d", column, q.Order, len(args))
	return where.String(), order, args
}

// pageOf builds a page whose cursor is set only when the window was full.
func pageOf[T any](items []T, take int, idOf func(T) int64) *domain.Page[T] {
	page := &domain.Page[T]{Items: items, Count: len(items)}
	if len(items) > 0 && len(items) == take {
		last := idOf(items[len(items)-1])
		page.After = &last
	}
	return page
}
