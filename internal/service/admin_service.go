package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/tgdesk/supportbot/internal/domain"
	"github.com/tgdesk/supportbot/internal/events"
	"github.com/tgdesk/supportbot/internal/repository"
	"github.com/tgdesk/supportbot/pkg/util"
)

// AdminService backs the operator command surface: statistics, user
// lookup, moderation, ticket closing and quick-reply management.
type AdminService struct {
	users        repository.UserRepository
	tickets      repository.TicketRepository
	quickReplies repository.QuickReplyRepository
	stats        repository.StatsRepository
	relay        *RelayService
	dispatcher   events.Dispatcher
	logger       *zap.Logger
}

// AdminDependencies bundles collaborators for the admin service.
type AdminDependencies struct {
	UserRepo       repository.UserRepository
	TicketRepo     repository.TicketRepository
	QuickReplyRepo repository.QuickReplyRepository
	StatsRepo      repository.StatsRepository
	Relay          *RelayService
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	return &AdminService{
		users:        deps.UserRepo,
		tickets:      deps.TicketRepo,
		quickReplies: deps.QuickReplyRepo,
		stats:        deps.StatsRepo,
		relay:        deps.Relay,
		dispatcher:   deps.Dispatcher,
		logger:       deps.Logger,
	}
}

// Stats computes the aggregate view over the message log.
func (s *AdminService) Stats(ctx context.Context) (*domain.Stats, error) {
	return s.stats.Collect(ctx)
}

// UserInfo returns a user with their activity counters.
func (s *AdminService) UserInfo(ctx context.Context, id int64) (*domain.User, *domain.UserStats, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, util.NewNotFound("user", nil)
	}
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.users.Stats(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return user, stats, nil
}

// Block marks the user as blocked. A false return means no such user,
// which is not an error.
func (s *AdminService) Block(ctx context.Context, id int64) (bool, error) {
	blocked, err := s.users.SetBlocked(ctx, id, true)
	if err != nil {
		return false, err
	}
	if blocked {
		s.publishEvent(ctx, events.Event{Type: events.EventUserBlocked, UserID: id})
	}
	return blocked, nil
}

// Unblock clears the blocked flag.
func (s *AdminService) Unblock(ctx context.Context, id int64) (bool, error) {
	unblocked, err := s.users.SetBlocked(ctx, id, false)
	if err != nil {
		return false, err
	}
	if unblocked {
		s.publishEvent(ctx, events.Event{Type: events.EventUserUnblocked, UserID: id})
	}
	return unblocked, nil
}

// CloseByAdminMessage closes the ticket owning the forwarded message the
// admin replied to. The second return reports whether this call closed
// it; false with a ticket means it was already closed.
func (s *AdminService) CloseByAdminMessage(ctx context.Context, adminMessageID int64) (*domain.Ticket, bool, error) {
	ticket, err := s.tickets.GetByAdminMessage(ctx, adminMessageID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, util.NewNotFound("ticket", nil)
	}
	if err != nil {
		return nil, false, err
	}
	if !ticket.IsOpen() {
		return ticket, false, nil
	}

	closed, err := s.tickets.Close(ctx, ticket.ID)
	if err != nil {
		return nil, false, err
	}
	if !closed {
		// lost a close race; treat as already closed
		return ticket, false, nil
	}

	notified := s.relay.NotifyTicketClosed(ctx, ticket.UserID, ticket.ID)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketClosed,
		UserID:   ticket.UserID,
		TicketID: ticket.ID,
		Payload:  events.TicketClosedPayload{UserNotified: notified},
	})
	return ticket, true, nil
}

// QuickList returns all quick replies ordered by shortcut.
func (s *AdminService) QuickList(ctx context.Context) ([]domain.QuickReply, error) {
	return s.quickReplies.List(ctx)
}

// QuickAdd creates or replaces a quick reply by shortcut.
func (s *AdminService) QuickAdd(ctx context.Context, shortcut, text string) (*domain.QuickReply, error) {
	return s.quickReplies.Upsert(ctx, shortcut, text)
}

// QuickDelete removes a quick reply; false means no such shortcut.
func (s *AdminService) QuickDelete(ctx context.Context, shortcut string) (bool, error) {
	return s.quickReplies.Delete(ctx, shortcut)
}

// SendQuick delivers the quick reply behind shortcut to the user who
// sent the forwarded message the admin replied to.
func (s *AdminService) SendQuick(ctx context.Context, repliedToID int64, shortcut string) error {
	reply, err := s.quickReplies.Get(ctx, shortcut)
	if errors.Is(err, pgx.ErrNoRows) {
		return util.NewNotFound("quick reply", nil)
	}
	if err != nil {
		return err
	}
	return s.relay.DeliverQuickReply(ctx, repliedToID, reply.Text)
}

func (s *AdminService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
