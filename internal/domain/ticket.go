package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// Ticket is one support conversation for a user. A user has at most one
// open ticket at a time; a closed ticket is immutable and subsequent
// contact opens a fresh one.
type Ticket struct {
	ID        int64
	UserID    int64
	Status    TicketStatus
	CreatedAt time.Time
	ClosedAt  *time.Time
}

// IsOpen reports whether the ticket still accepts messages.
func (t *Ticket) IsOpen() bool {
	return t.Status == TicketStatusOpen
}
