package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tgdesk/supportbot/internal/domain"
)

// MessageRepository manages the relay message log. GetByAdminMessageID is
// the correlation lookup on the hot reply path; it only ever resolves
// incoming rows because outgoing rows carry no admin-side identifier.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByAdminMessageID(ctx context.Context, adminMessageID int64) (*domain.Message, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository builds repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	const query = `
        INSERT INTO messages (ticket_id, user_id, user_message_id, admin_message_id, direction)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		msg.TicketID,
		msg.UserID,
		msg.UserMessageID,
		msg.AdminMessageID,
		msg.Direction,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *messageRepository) GetByAdminMessageID(ctx context.Context, adminMessageID int64) (*domain.Message, error) {
	const query = `
        SELECT id, ticket_id, user_id, user_message_id, admin_message_id, direction, created_at
        FROM messages WHERE admin_message_id=$1`

	var msg domain.Message
	if err := r.pool.QueryRow(ctx, query, adminMessageID).Scan(
		&msg.ID,
		&msg.TicketID,
		&msg.UserID,
		&msg.UserMessageID,
		&msg.AdminMessageID,
		&msg.Direction,
		&msg.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &msg, nil
}
