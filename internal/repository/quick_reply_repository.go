package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tgdesk/supportbot/internal/domain"
)

// QuickReplyRepository manages canned responses keyed by shortcut.
type QuickReplyRepository interface {
	List(ctx context.Context) ([]domain.QuickReply, error)
	Get(ctx context.Context, shortcut string) (*domain.QuickReply, error)
	Upsert(ctx context.Context, shortcut, text string) (*domain.QuickReply, error)
	Delete(ctx context.Context, shortcut string) (bool, error)
}

type quickReplyRepository struct {
	pool *pgxpool.Pool
}

// NewQuickReplyRepository returns a Postgres-backed implementation.
func NewQuickReplyRepository(pool *pgxpool.Pool) QuickReplyRepository {
	return &quickReplyRepository{pool: pool}
}

func (r *quickReplyRepository) List(ctx context.Context) ([]domain.QuickReply, error) {
	const query = `SELECT id, shortcut, text FROM quick_replies ORDER BY shortcut`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuickReplies(rows)
}

func (r *quickReplyRepository) Get(ctx context.Context, shortcut string) (*domain.QuickReply, error) {
	const query = `SELECT id, shortcut, text FROM quick_replies WHERE shortcut=$1`

	var reply domain.QuickReply
	if err := r.pool.QueryRow(ctx, query, shortcut).Scan(
		&reply.ID,
		&reply.Shortcut,
		&reply.Text,
	); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *quickReplyRepository) Upsert(ctx context.Context, shortcut, text string) (*domain.QuickReply, error) {
	const query = `
        INSERT INTO quick_replies (shortcut, text)
        VALUES ($1, $2)
        ON CONFLICT (shortcut) DO UPDATE SET text = EXCLUDED.text
        RETURNING id, shortcut, text`

	var reply domain.QuickReply
	if err := r.pool.QueryRow(ctx, query, shortcut, text).Scan(
		&reply.ID,
		&reply.Shortcut,
		&reply.Text,
	); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *quickReplyRepository) Delete(ctx context.Context, shortcut string) (bool, error) {
	const query = `DELETE FROM quick_replies WHERE shortcut=$1`

	cmd, err := r.pool.Exec(ctx, query, shortcut)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func scanQuickReplies(rows pgx.Rows) ([]domain.QuickReply, error) {
	var result []domain.QuickReply
	for rows.Next() {
		var reply domain.QuickReply
		if err := rows.Scan(&reply.ID, &reply.Shortcut, &reply.Text); err != nil {
			return nil, err
		}
		result = append(result, reply)
	}
	return result, rows.Err()
}
