package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tgdesk/supportbot/internal/domain"
)

// StatsRepository derives aggregate statistics from the message log.
type StatsRepository interface {
	Collect(ctx context.Context) (*domain.Stats, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository returns a Postgres-backed implementation.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Collect(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{}

	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users`,
	).Scan(&stats.TotalUsers); err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE last_message_at >= date_trunc('day', NOW())`,
	).Scan(&stats.ActiveToday); err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx,
		`SELECT
            COUNT(*) FILTER (WHERE status='open'),
            COUNT(*) FILTER (WHERE status='closed')
         FROM tickets`,
	).Scan(&stats.OpenTickets, &stats.ClosedTickets); err != nil {
		return nil, err
	}

	// Each incoming message of the trailing 7 days pairs with the earliest
	// strictly-later outgoing message in the same ticket; unanswered
	// messages contribute no pair.
	const avgQuery = `
        SELECT AVG(EXTRACT(EPOCH FROM (r.first_reply - m.created_at)) / 60)
        FROM messages m
        JOIN LATERAL (
            SELECT MIN(o.created_at) AS first_reply
            FROM messages o
            WHERE o.ticket_id = m.ticket_id
              AND o.direction = 'outgoing'
              AND o.created_at > m.created_at
        ) r ON r.first_reply IS NOT NULL
        WHERE m.direction = 'incoming'
          AND m.created_at >= NOW() - INTERVAL '7 days'`

	if err := r.pool.QueryRow(ctx, avgQuery).Scan(&stats.AvgResponseMinutes); err != nil {
		return nil, err
	}

	const dailyQuery = `
        SELECT DATE(created_at) AS day, COUNT(*)
        FROM messages
        WHERE created_at >= NOW() - INTERVAL '7 days'
        GROUP BY DATE(created_at)
        ORDER BY day`

	rows, err := r.pool.Query(ctx, dailyQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var day time.Time
		var count int64
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		stats.MessagesLast7Days = append(stats.MessagesLast7Days, domain.DailyCount{
			Date:  day.Format("2006-01-02"),
			Count: count,
		})
	}
	return stats, rows.Err()
}
