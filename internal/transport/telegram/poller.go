package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/tgdesk/supportbot/internal/domain"
	"github.com/tgdesk/supportbot/internal/transport"
)

// Handler consumes normalized inbound updates.
type Handler interface {
	HandleMessage(ctx context.Context, update transport.Update)
}

// Poller runs the long-poll loop and dispatches message updates to the
// bot router. Updates are processed in arrival order; the platform
// serializes delivery per chat.
type Poller struct {
	api        *tgbotapi.BotAPI
	handler    Handler
	logger     *zap.Logger
	timeoutSec int
}

// NewPoller builds a poller around an authorized bot client.
func NewPoller(api *tgbotapi.BotAPI, handler Handler, logger *zap.Logger, timeoutSec int) *Poller {
	if timeoutSec <= 0 {
		timeoutSec = 30
	}
	return &Poller{api: api, handler: handler, logger: logger, timeoutSec: timeoutSec}
}

// Run blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = p.timeoutSec

	updates := p.api.GetUpdatesChan(cfg)
	p.logger.Info("telegram polling started", zap.String("bot", p.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			p.api.StopReceivingUpdates()
			p.logger.Info("telegram polling stopped")
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			if upd.Message == nil || upd.Message.From == nil {
				continue
			}
			p.handler.HandleMessage(ctx, fromMessage(upd.Message))
		}
	}
}

func fromMessage(m *tgbotapi.Message) transport.Update {
	update := transport.Update{
		ChatID:    m.Chat.ID,
		SenderID:  m.From.ID,
		MessageID: int64(m.MessageID),
		Text:      m.Text,
		Content:   contentOf(m),
	}
	if m.From.UserName != "" {
		username := m.From.UserName
		update.Username = &username
	}
	if m.From.FirstName != "" {
		firstName := m.From.FirstName
		update.FirstName = &firstName
	}
	if m.From.LastName != "" {
		lastName := m.From.LastName
		update.LastName = &lastName
	}
	if m.ReplyToMessage != nil {
		replyTo := int64(m.ReplyToMessage.MessageID)
		update.ReplyToID = &replyTo
	}
	return update
}

func contentOf(m *tgbotapi.Message) domain.Content {
	switch {
	case m.Text != "":
		return domain.TextContent(m.Text)
	case len(m.Photo) > 0:
		return domain.Content{Kind: domain.ContentPhoto, FileID: m.Photo[len(m.Photo)-1].FileID, Caption: m.Caption}
	// animations also populate Document, so they must be matched first
	case m.Animation != nil:
		return domain.Content{Kind: domain.ContentAnimation, FileID: m.Animation.FileID, Caption: m.Caption}
	case m.Document != nil:
		return domain.Content{Kind: domain.ContentDocument, FileID: m.Document.FileID, Caption: m.Caption}
	case m.Voice != nil:
		return domain.Content{Kind: domain.ContentVoice, FileID: m.Voice.FileID}
	case m.Video != nil:
		return domain.Content{Kind: domain.ContentVideo, FileID: m.Video.FileID, Caption: m.Caption}
	case m.VideoNote != nil:
		return domain.Content{Kind: domain.ContentVideoNote, FileID: m.VideoNote.FileID}
	case m.Sticker != nil:
		return domain.Content{Kind: domain.ContentSticker, FileID: m.Sticker.FileID}
	case m.Location != nil:
		return domain.Content{Kind: domain.ContentLocation, Latitude: m.Location.Latitude, Longitude: m.Location.Longitude}
	case m.Contact != nil:
		return domain.Content{Kind: domain.ContentContact, PhoneNumber: m.Contact.PhoneNumber, FirstName: m.Contact.FirstName}
	default:
		return domain.Content{Kind: domain.ContentUnsupported}
	}
}
