package transport

import (
	"context"
	"errors"

	"github.com/tgdesk/supportbot/internal/domain"
)

// ErrUnsupportedContent is returned when a Content kind has no delivery
// primitive on the platform.
var ErrUnsupportedContent = errors.New("unsupported content kind")

// Sender is the outbound messaging surface the relay core depends on.
// Every delivery returns the platform-assigned message identifier of the
// created message, or a delivery error.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) (int64, error)
	SendContent(ctx context.Context, chatID int64, content domain.Content) (int64, error)
	Forward(ctx context.Context, toChatID, fromChatID, messageID int64) (int64, error)
	React(ctx context.Context, chatID, messageID int64, emoji string) error
}

// Update is one inbound message event, already normalized away from the
// platform client's types.
type Update struct {
	ChatID    int64
	SenderID  int64
	MessageID int64
	Username  *string
	FirstName *string
	LastName  *string
	Text      string
	ReplyToID *int64
	Content   domain.Content
}

// IsReply reports whether the message replies to an earlier one.
func (u *Update) IsReply() bool {
	return u.ReplyToID != nil
}
