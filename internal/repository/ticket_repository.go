package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tgdesk/supportbot/internal/domain"
)

// TicketRepository encapsulates ticket persistence. GetOrCreate is the
// sole acquisition entry point used by the relay.
type TicketRepository interface {
	GetOpenByUser(ctx context.Context, userID int64) (*domain.Ticket, error)
	Create(ctx context.Context, userID int64) (*domain.Ticket, error)
	GetOrCreate(ctx context.Context, userID int64) (*domain.Ticket, error)
	Close(ctx context.Context, id int64) (bool, error)
	GetByAdminMessage(ctx context.Context, adminMessageID int64) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) GetOpenByUser(ctx context.Context, userID int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, user_id, status, created_at, closed_at
        FROM tickets WHERE user_id=$1 AND status='open'
        ORDER BY created_at DESC LIMIT 1`

	return r.scanTicket(ctx, query, userID)
}

// Create inserts a new open ticket. The partial unique index on
// (user_id) WHERE status='open' makes a concurrent duplicate insert lose
// the race; the loser re-reads the winner's row instead of erroring.
func (r *ticketRepository) Create(ctx context.Context, userID int64) (*domain.Ticket, error) {
	const query = `
        INSERT INTO tickets (user_id) VALUES ($1)
        ON CONFLICT (user_id) WHERE status='open' DO NOTHING
        RETURNING id, user_id, status, created_at, closed_at`

	ticket, err := r.scanTicket(ctx, query, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.GetOpenByUser(ctx, userID)
	}
	return ticket, err
}

func (r *ticketRepository) GetOrCreate(ctx context.Context, userID int64) (*domain.Ticket, error) {
	ticket, err := r.GetOpenByUser(ctx, userID)
	if err == nil {
		return ticket, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return r.Create(ctx, userID)
}

func (r *ticketRepository) Close(ctx context.Context, id int64) (bool, error) {
	const query = `
        UPDATE tickets SET status='closed', closed_at=NOW()
        WHERE id=$1 AND status='open'`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ticketRepository) GetByAdminMessage(ctx context.Context, adminMessageID int64) (*domain.Ticket, error) {
	const query = `
        SELECT t.id, t.user_id, t.status, t.created_at, t.closed_at
        FROM tickets t
        JOIN messages m ON m.ticket_id = t.id
        WHERE m.admin_message_id=$1`

	return r.scanTicket(ctx, query, adminMessageID)
}

func (r *ticketRepository) scanTicket(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
