package events

import (
	"time"

	"github.com/tgdesk/supportbot/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMessageForwarded EventType = "message_forwarded"
	EventReplyDelivered   EventType = "reply_delivered"
	EventTicketClosed     EventType = "ticket_closed"
	EventUserBlocked      EventType = "user_blocked"
	EventUserUnblocked    EventType = "user_unblocked"
)

// Event represents a relay event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    int64       `json:"user_id"`
	TicketID  int64       `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// MessageForwardedPayload payload.
type MessageForwardedPayload struct {
	MessageID      int64              `json:"message_id"`
	AdminMessageID int64              `json:"admin_message_id"`
	ContentKind    domain.ContentKind `json:"content_kind"`
}

// ReplyDeliveredPayload payload.
type ReplyDeliveredPayload struct {
	UserMessageID int64              `json:"user_message_id"`
	ContentKind   domain.ContentKind `json:"content_kind"`
	Logged        bool               `json:"logged"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	UserNotified bool `json:"user_notified"`
}
