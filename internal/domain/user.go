package domain

import "time"

// User is an end-user who contacted the support bot. The ID is the
// platform-assigned chat identifier; display fields are whatever the
// platform reported on the most recent inbound message.
type User struct {
	ID            int64
	Username      *string
	FirstName     *string
	LastName      *string
	IsBlocked     bool
	CreatedAt     time.Time
	LastMessageAt *time.Time
}

// FullName joins the optional name parts for display.
func (u *User) FullName() string {
	name := ""
	if u.FirstName != nil {
		name = *u.FirstName
	}
	if u.LastName != nil {
		if name != "" {
			name += " "
		}
		name += *u.LastName
	}
	return name
}

// UserStats aggregates per-user activity counters.
type UserStats struct {
	MessageCount int64
	TicketCount  int64
}
