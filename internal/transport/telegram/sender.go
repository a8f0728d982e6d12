package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tgdesk/supportbot/internal/domain"
	"github.com/tgdesk/supportbot/internal/transport"
)

// Sender implements transport.Sender over the Telegram Bot API.
type Sender struct {
	api *tgbotapi.BotAPI
}

// NewSender wraps an authorized bot client.
func NewSender(api *tgbotapi.BotAPI) *Sender {
	return &Sender{api: api}
}

func (s *Sender) SendText(ctx context.Context, chatID int64, text string) (int64, error) {
	return s.send(tgbotapi.NewMessage(chatID, text))
}

// SendContent delivers one member of the media union. The switch is
// exhaustive over supported kinds; anything else is rejected with
// transport.ErrUnsupportedContent.
func (s *Sender) SendContent(ctx context.Context, chatID int64, content domain.Content) (int64, error) {
	switch content.Kind {
	case domain.ContentText:
		return s.send(tgbotapi.NewMessage(chatID, content.Text))
	case domain.ContentPhoto:
		msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(content.FileID))
		msg.Caption = content.Caption
		return s.send(msg)
	case domain.ContentDocument:
		msg := tgbotapi.NewDocument(chatID, tgbotapi.FileID(content.FileID))
		msg.Caption = content.Caption
		return s.send(msg)
	case domain.ContentVoice:
		return s.send(tgbotapi.NewVoice(chatID, tgbotapi.FileID(content.FileID)))
	case domain.ContentVideo:
		msg := tgbotapi.NewVideo(chatID, tgbotapi.FileID(content.FileID))
		msg.Caption = content.Caption
		return s.send(msg)
	case domain.ContentVideoNote:
		return s.send(tgbotapi.NewVideoNote(chatID, 0, tgbotapi.FileID(content.FileID)))
	case domain.ContentSticker:
		return s.send(tgbotapi.NewSticker(chatID, tgbotapi.FileID(content.FileID)))
	case domain.ContentAnimation:
		msg := tgbotapi.NewAnimation(chatID, tgbotapi.FileID(content.FileID))
		msg.Caption = content.Caption
		return s.send(msg)
	case domain.ContentLocation:
		return s.send(tgbotapi.NewLocation(chatID, content.Latitude, content.Longitude))
	case domain.ContentContact:
		return s.send(tgbotapi.NewContact(chatID, content.PhoneNumber, content.FirstName))
	default:
		return 0, transport.ErrUnsupportedContent
	}
}

func (s *Sender) Forward(ctx context.Context, toChatID, fromChatID, messageID int64) (int64, error) {
	return s.send(tgbotapi.NewForward(toChatID, fromChatID, int(messageID)))
}

// React sets an emoji reaction on a message. The typed API predates
// reactions, so the call goes through the raw request path.
func (s *Sender) React(ctx context.Context, chatID, messageID int64, emoji string) error {
	params := tgbotapi.Params{
		"chat_id":    fmt.Sprintf("%d", chatID),
		"message_id": fmt.Sprintf("%d", messageID),
		"reaction":   fmt.Sprintf(`[{"type":"emoji","emoji":"%s"}]`, emoji),
	}
	_, err := s.api.MakeRequest("setMessageReaction", params)
	return err
}

func (s *Sender) send(msg tgbotapi.Chattable) (int64, error) {
	sent, err := s.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return int64(sent.MessageID), nil
}
