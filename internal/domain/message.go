package domain

import "time"

// MessageDirection tags which way a relayed message travelled.
type MessageDirection string

const (
	DirectionIncoming MessageDirection = "incoming"
	DirectionOutgoing MessageDirection = "outgoing"
)

// Message is a logged relay event. Incoming messages always carry the
// admin-side identifier of the forwarded copy; outgoing messages never do.
// That asymmetry is what lets an admin reply be correlated back to the
// originating user.
type Message struct {
	ID             int64
	TicketID       int64
	UserID         int64
	UserMessageID  *int64
	AdminMessageID *int64
	Direction      MessageDirection
	CreatedAt      time.Time
}
