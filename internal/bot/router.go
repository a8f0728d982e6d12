package bot

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/tgdesk/supportbot/internal/domain"
	"github.com/tgdesk/supportbot/internal/service"
	"github.com/tgdesk/supportbot/internal/transport"
)

// RelayEngine is the slice of the relay service the router drives.
type RelayEngine interface {
	TrackUser(ctx context.Context, id int64, username, firstName, lastName *string) (*domain.User, error)
	ForwardToAdmin(ctx context.Context, user *domain.User, inbound service.Inbound) error
	DeliverAdminReply(ctx context.Context, adminMsgID, repliedToID int64, content domain.Content) error
	AdminChatID() int64
}

// AdminOps is the command-surface slice of the admin service.
type AdminOps interface {
	Stats(ctx context.Context) (*domain.Stats, error)
	UserInfo(ctx context.Context, id int64) (*domain.User, *domain.UserStats, error)
	Block(ctx context.Context, id int64) (bool, error)
	Unblock(ctx context.Context, id int64) (bool, error)
	CloseByAdminMessage(ctx context.Context, adminMessageID int64) (*domain.Ticket, bool, error)
	QuickList(ctx context.Context) ([]domain.QuickReply, error)
	QuickAdd(ctx context.Context, shortcut, text string) (*domain.QuickReply, error)
	QuickDelete(ctx context.Context, shortcut string) (bool, error)
	SendQuick(ctx context.Context, repliedToID int64, shortcut string) error
}

// Router dispatches inbound updates: non-admin messages are relayed to
// the admin, admin messages are parsed as commands or direct replies.
type Router struct {
	relay       RelayEngine
	admin       AdminOps
	sender      transport.Sender
	logger      *zap.Logger
	adminChatID int64
}

// NewRouter constructs the router.
func NewRouter(relay RelayEngine, admin AdminOps, sender transport.Sender, logger *zap.Logger) *Router {
	return &Router{
		relay:       relay,
		admin:       admin,
		sender:      sender,
		logger:      logger,
		adminChatID: relay.AdminChatID(),
	}
}

// HandleMessage routes one inbound message event.
func (r *Router) HandleMessage(ctx context.Context, u transport.Update) {
	if u.SenderID == r.adminChatID {
		r.handleAdmin(ctx, u)
		return
	}
	r.handleUser(ctx, u)
}

func (r *Router) handleUser(ctx context.Context, u transport.Update) {
	// every inbound message upserts the user, /start included
	user, err := r.relay.TrackUser(ctx, u.SenderID, u.Username, u.FirstName, u.LastName)
	if err != nil {
		r.logger.Error("user upsert failed", zap.Int64("user_id", u.SenderID), zap.Error(err))
		return
	}

	if command(u.Text) == "/start" {
		if _, err := r.sender.SendText(ctx, u.ChatID, welcomeText); err != nil {
			r.logger.Warn("welcome delivery failed", zap.Int64("chat_id", u.ChatID), zap.Error(err))
		}
		return
	}

	inbound := service.Inbound{MessageID: u.MessageID, Kind: u.Content.Kind}
	if err := r.relay.ForwardToAdmin(ctx, user, inbound); err != nil {
		r.logger.Error("forward to admin failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}
}

func (r *Router) handleAdmin(ctx context.Context, u transport.Update) {
	switch command(u.Text) {
	case "/stats":
		r.cmdStats(ctx)
	case "/user":
		r.cmdUser(ctx, u)
	case "/block":
		r.cmdSetBlocked(ctx, u, true)
	case "/unblock":
		r.cmdSetBlocked(ctx, u, false)
	case "/close":
		r.cmdClose(ctx, u)
	case "/quick":
		r.cmdQuick(ctx, u)
	case "/q":
		r.cmdSendQuick(ctx, u)
	default:
		if u.IsReply() {
			if err := r.relay.DeliverAdminReply(ctx, u.MessageID, *u.ReplyToID, u.Content); err != nil {
				r.logger.Error("admin reply delivery failed", zap.Error(err))
			}
		}
	}
}

// command extracts the leading slash command, if any.
func command(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	return fields[0]
}

func (r *Router) reply(ctx context.Context, text string) {
	if _, err := r.sender.SendText(ctx, r.adminChatID, text); err != nil {
		r.logger.Warn("admin notice delivery failed", zap.Error(err))
	}
}
