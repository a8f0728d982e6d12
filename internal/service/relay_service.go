package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/tgdesk/supportbot/internal/domain"
	"github.com/tgdesk/supportbot/internal/events"
	"github.com/tgdesk/supportbot/internal/format"
	"github.com/tgdesk/supportbot/internal/observability"
	"github.com/tgdesk/supportbot/internal/repository"
	"github.com/tgdesk/supportbot/internal/transport"
	"github.com/tgdesk/supportbot/pkg/util"
)

const ackEmoji = "🕊"

// Inbound describes one user message entering the relay.
type Inbound struct {
	MessageID int64
	Kind      domain.ContentKind
}

// RelayService orchestrates inbound-to-admin forwarding and
// admin-reply-to-user delivery.
type RelayService struct {
	users       repository.UserRepository
	tickets     repository.TicketRepository
	messages    repository.MessageRepository
	sender      transport.Sender
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
	adminChatID int64
}

// RelayDependencies bundles collaborators for the relay service.
type RelayDependencies struct {
	UserRepo    repository.UserRepository
	TicketRepo  repository.TicketRepository
	MessageRepo repository.MessageRepository
	Sender      transport.Sender
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	AdminChatID int64
}

// NewRelayService constructs the service.
func NewRelayService(deps RelayDependencies) *RelayService {
	return &RelayService{
		users:       deps.UserRepo,
		tickets:     deps.TicketRepo,
		messages:    deps.MessageRepo,
		sender:      deps.Sender,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		adminChatID: deps.AdminChatID,
	}
}

// TrackUser upserts the user record from an inbound message. The upsert
// is a single statement, so repeated calls for the same user are
// idempotent and never clobber the creation timestamp.
func (s *RelayService) TrackUser(ctx context.Context, id int64, username, firstName, lastName *string) (*domain.User, error) {
	return s.users.Upsert(ctx, id, username, firstName, lastName)
}

// ForwardToAdmin relays one inbound user message to the admin. Blocked
// users get a notice and produce no ticket or message activity. The
// incoming row is persisted only after the forward succeeded, so every
// incoming row carries the admin-side identifier needed for correlation.
func (s *RelayService) ForwardToAdmin(ctx context.Context, user *domain.User, inbound Inbound) error {
	if user.IsBlocked {
		if _, err := s.sender.SendText(ctx, user.ID, format.BlockedNotice); err != nil {
			s.logger.Warn("failed to deliver blocked notice", zap.Int64("user_id", user.ID), zap.Error(err))
		}
		return nil
	}

	ticket, err := s.tickets.GetOrCreate(ctx, user.ID)
	if err != nil {
		return err
	}
	stats, err := s.users.Stats(ctx, user.ID)
	if err != nil {
		return err
	}

	if _, err := s.sender.SendText(ctx, s.adminChatID, format.UserCard(user, ticket, stats)); err != nil {
		return util.NewDeliveryFailed("context card delivery failed", err)
	}

	adminMsgID, err := s.sender.Forward(ctx, s.adminChatID, user.ID, inbound.MessageID)
	if err != nil {
		return util.NewDeliveryFailed("forward to admin failed", err)
	}

	userMsgID := inbound.MessageID
	msg := &domain.Message{
		TicketID:       ticket.ID,
		UserID:         user.ID,
		UserMessageID:  &userMsgID,
		AdminMessageID: &adminMsgID,
		Direction:      domain.DirectionIncoming,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return err
	}

	s.metrics.RecordUpdate(string(inbound.Kind))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventMessageForwarded,
		UserID:   user.ID,
		TicketID: ticket.ID,
		Payload: events.MessageForwardedPayload{
			MessageID:      msg.ID,
			AdminMessageID: adminMsgID,
			ContentKind:    inbound.Kind,
		},
	})
	return nil
}

// DeliverAdminReply routes a direct admin reply back to the originating
// user. A reply to a message the relay never forwarded is silently
// ignored. Delivery failures are reported to the admin and never abort
// the process.
func (s *RelayService) DeliverAdminReply(ctx context.Context, adminMsgID, repliedToID int64, content domain.Content) error {
	original, err := s.messages.GetByAdminMessageID(ctx, repliedToID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, original.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		s.notifyAdmin(ctx, format.UserNotFoundNotice)
		return nil
	}
	if err != nil {
		return err
	}

	userMsgID, logged, err := s.deliverToUser(ctx, user.ID, content)
	if err != nil {
		if errors.Is(err, transport.ErrUnsupportedContent) {
			s.notifyAdmin(ctx, format.UnsupportedContentNotice)
			return nil
		}
		s.metrics.RecordDelivery(string(domain.DirectionOutgoing), false)
		s.notifyAdmin(ctx, fmt.Sprintf(format.DeliveryFailedNotice, err))
		return nil
	}

	s.metrics.RecordDelivery(string(domain.DirectionOutgoing), true)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventReplyDelivered,
		UserID:   user.ID,
		TicketID: original.TicketID,
		Payload: events.ReplyDeliveredPayload{
			UserMessageID: userMsgID,
			ContentKind:   content.Kind,
			Logged:        logged,
		},
	})

	if err := s.sender.React(ctx, s.adminChatID, adminMsgID, ackEmoji); err != nil {
		s.notifyAdmin(ctx, format.SentNotice)
	}
	return nil
}

// DeliverQuickReply sends canned text to the user behind a forwarded
// message. The caller acknowledges to the admin on success.
func (s *RelayService) DeliverQuickReply(ctx context.Context, repliedToID int64, text string) error {
	original, err := s.messages.GetByAdminMessageID(ctx, repliedToID)
	if errors.Is(err, pgx.ErrNoRows) {
		return util.NewNotFound("message", nil)
	}
	if err != nil {
		return err
	}

	_, _, err = s.deliverToUser(ctx, original.UserID, domain.TextContent(text))
	if err != nil {
		s.metrics.RecordDelivery(string(domain.DirectionOutgoing), false)
		return util.NewDeliveryFailed("quick reply delivery failed", err)
	}
	s.metrics.RecordDelivery(string(domain.DirectionOutgoing), true)
	return nil
}

// NotifyTicketClosed tells the user their ticket was closed. Fire and
// forget: failure is logged and never propagated.
func (s *RelayService) NotifyTicketClosed(ctx context.Context, userID, ticketID int64) bool {
	if _, err := s.sender.SendText(ctx, userID, fmt.Sprintf(format.TicketClosedUserNotice, ticketID)); err != nil {
		s.logger.Warn("failed to notify user of ticket closure",
			zap.Int64("user_id", userID),
			zap.Int64("ticket_id", ticketID),
			zap.Error(err))
		return false
	}
	return true
}

// AdminChatID exposes the configured admin identity.
func (s *RelayService) AdminChatID() int64 {
	return s.adminChatID
}

// deliverToUser sends content to the user's chat and logs it as an
// outgoing message against their currently open ticket, if any. The
// ticket may have been closed between the inbound message and this
// reply; the delivery still happens, only the logging is skipped.
func (s *RelayService) deliverToUser(ctx context.Context, userID int64, content domain.Content) (int64, bool, error) {
	userMsgID, err := s.sender.SendContent(ctx, userID, content)
	if err != nil {
		return 0, false, err
	}

	ticket, err := s.tickets.GetOpenByUser(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return userMsgID, false, nil
	}
	if err != nil {
		return userMsgID, false, err
	}

	msg := &domain.Message{
		TicketID:      ticket.ID,
		UserID:        userID,
		UserMessageID: &userMsgID,
		Direction:     domain.DirectionOutgoing,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return userMsgID, false, err
	}
	return userMsgID, true, nil
}

func (s *RelayService) notifyAdmin(ctx context.Context, text string) {
	if _, err := s.sender.SendText(ctx, s.adminChatID, text); err != nil {
		s.logger.Warn("failed to notify admin", zap.Error(err))
	}
}

func (s *RelayService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
