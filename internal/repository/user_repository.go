package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tgdesk/supportbot/internal/domain"
)

// UserRepository defines persistence access for end-users.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Upsert(ctx context.Context, id int64, username, firstName, lastName *string) (*domain.User, error)
	SetBlocked(ctx context.Context, id int64, blocked bool) (bool, error)
	Stats(ctx context.Context, id int64) (*domain.UserStats, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
        SELECT id, username, first_name, last_name, is_blocked, created_at, last_message_at
        FROM users WHERE id=$1`

	return r.scanUser(ctx, query, id)
}

// Upsert inserts the user on first contact or refreshes the mutable
// display fields and last_message_at in a single statement. created_at is
// only ever set by the insert branch.
func (r *userRepository) Upsert(ctx context.Context, id int64, username, firstName, lastName *string) (*domain.User, error) {
	const query = `
        INSERT INTO users (id, username, first_name, last_name, last_message_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (id) DO UPDATE SET
            username = EXCLUDED.username,
            first_name = EXCLUDED.first_name,
            last_name = EXCLUDED.last_name,
            last_message_at = NOW()
        RETURNING id, username, first_name, last_name, is_blocked, created_at, last_message_at`

	return r.scanUser(ctx, query, id, username, firstName, lastName)
}

func (r *userRepository) SetBlocked(ctx context.Context, id int64, blocked bool) (bool, error) {
	const query = `UPDATE users SET is_blocked=$2 WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id, blocked)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *userRepository) Stats(ctx context.Context, id int64) (*domain.UserStats, error) {
	stats := &domain.UserStats{}

	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE user_id=$1`, id,
	).Scan(&stats.MessageCount); err != nil {
		return nil, err
	}
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tickets WHERE user_id=$1`, id,
	).Scan(&stats.TicketCount); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *userRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.IsBlocked,
		&user.CreatedAt,
		&user.LastMessageAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
