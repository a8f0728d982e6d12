package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tgdesk/supportbot/internal/domain"
	"github.com/tgdesk/supportbot/internal/transport"
)

// fakeState is shared in-memory storage behind the repository fakes so a
// test can wire all repos over one consistent data set.
type fakeState struct {
	users        map[int64]*domain.User
	tickets      map[int64]*domain.Ticket
	messages     []*domain.Message
	quickReplies map[string]*domain.QuickReply

	ticketSeq  int64
	messageSeq int64
	quickSeq   int64
}

func newFakeState() *fakeState {
	return &fakeState{
		users:        make(map[int64]*domain.User),
		tickets:      make(map[int64]*domain.Ticket),
		quickReplies: make(map[string]*domain.QuickReply),
	}
}

func (st *fakeState) openTicket(userID int64) *domain.Ticket {
	var open *domain.Ticket
	for _, t := range st.tickets {
		if t.UserID == userID && t.Status == domain.TicketStatusOpen {
			if open == nil || t.CreatedAt.After(open.CreatedAt) {
				open = t
			}
		}
	}
	return open
}

type fakeUserRepo struct{ st *fakeState }

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, ok := r.st.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) Upsert(ctx context.Context, id int64, username, firstName, lastName *string) (*domain.User, error) {
	now := time.Now()
	user, ok := r.st.users[id]
	if !ok {
		user = &domain.User{ID: id, CreatedAt: now}
		r.st.users[id] = user
	}
	user.Username = username
	user.FirstName = firstName
	user.LastName = lastName
	user.LastMessageAt = &now
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) SetBlocked(ctx context.Context, id int64, blocked bool) (bool, error) {
	user, ok := r.st.users[id]
	if !ok {
		return false, nil
	}
	user.IsBlocked = blocked
	return true, nil
}

func (r *fakeUserRepo) Stats(ctx context.Context, id int64) (*domain.UserStats, error) {
	stats := &domain.UserStats{}
	for _, m := range r.st.messages {
		if m.UserID == id {
			stats.MessageCount++
		}
	}
	for _, t := range r.st.tickets {
		if t.UserID == id {
			stats.TicketCount++
		}
	}
	return stats, nil
}

type fakeTicketRepo struct{ st *fakeState }

func (r *fakeTicketRepo) GetOpenByUser(ctx context.Context, userID int64) (*domain.Ticket, error) {
	if open := r.st.openTicket(userID); open != nil {
		copied := *open
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) Create(ctx context.Context, userID int64) (*domain.Ticket, error) {
	// mirrors the partial unique index: a concurrent open ticket wins
	if open := r.st.openTicket(userID); open != nil {
		copied := *open
		return &copied, nil
	}
	r.st.ticketSeq++
	ticket := &domain.Ticket{
		ID:        r.st.ticketSeq,
		UserID:    userID,
		Status:    domain.TicketStatusOpen,
		CreatedAt: time.Now(),
	}
	r.st.tickets[ticket.ID] = ticket
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetOrCreate(ctx context.Context, userID int64) (*domain.Ticket, error) {
	if open := r.st.openTicket(userID); open != nil {
		copied := *open
		return &copied, nil
	}
	return r.Create(ctx, userID)
}

func (r *fakeTicketRepo) Close(ctx context.Context, id int64) (bool, error) {
	ticket, ok := r.st.tickets[id]
	if !ok || ticket.Status != domain.TicketStatusOpen {
		return false, nil
	}
	now := time.Now()
	ticket.Status = domain.TicketStatusClosed
	ticket.ClosedAt = &now
	return true, nil
}

func (r *fakeTicketRepo) GetByAdminMessage(ctx context.Context, adminMessageID int64) (*domain.Ticket, error) {
	for _, m := range r.st.messages {
		if m.AdminMessageID != nil && *m.AdminMessageID == adminMessageID {
			if ticket, ok := r.st.tickets[m.TicketID]; ok {
				copied := *ticket
				return &copied, nil
			}
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeMessageRepo struct{ st *fakeState }

func (r *fakeMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	r.st.messageSeq++
	msg.ID = r.st.messageSeq
	msg.CreatedAt = time.Now()
	copied := *msg
	r.st.messages = append(r.st.messages, &copied)
	return nil
}

func (r *fakeMessageRepo) GetByAdminMessageID(ctx context.Context, adminMessageID int64) (*domain.Message, error) {
	for _, m := range r.st.messages {
		if m.AdminMessageID != nil && *m.AdminMessageID == adminMessageID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeQuickReplyRepo struct{ st *fakeState }

func (r *fakeQuickReplyRepo) List(ctx context.Context) ([]domain.QuickReply, error) {
	shortcuts := make([]string, 0, len(r.st.quickReplies))
	for shortcut := range r.st.quickReplies {
		shortcuts = append(shortcuts, shortcut)
	}
	sort.Strings(shortcuts)
	result := make([]domain.QuickReply, 0, len(shortcuts))
	for _, shortcut := range shortcuts {
		result = append(result, *r.st.quickReplies[shortcut])
	}
	return result, nil
}

func (r *fakeQuickReplyRepo) Get(ctx context.Context, shortcut string) (*domain.QuickReply, error) {
	reply, ok := r.st.quickReplies[shortcut]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *reply
	return &copied, nil
}

func (r *fakeQuickReplyRepo) Upsert(ctx context.Context, shortcut, text string) (*domain.QuickReply, error) {
	reply, ok := r.st.quickReplies[shortcut]
	if !ok {
		r.st.quickSeq++
		reply = &domain.QuickReply{ID: r.st.quickSeq, Shortcut: shortcut}
		r.st.quickReplies[shortcut] = reply
	}
	reply.Text = text
	copied := *reply
	return &copied, nil
}

func (r *fakeQuickReplyRepo) Delete(ctx context.Context, shortcut string) (bool, error) {
	if _, ok := r.st.quickReplies[shortcut]; !ok {
		return false, nil
	}
	delete(r.st.quickReplies, shortcut)
	return true, nil
}

type fakeStatsRepo struct{ stats *domain.Stats }

func (r *fakeStatsRepo) Collect(ctx context.Context) (*domain.Stats, error) {
	if r.stats == nil {
		return &domain.Stats{}, nil
	}
	return r.stats, nil
}

type sentText struct {
	chatID int64
	text   string
}

type sentContent struct {
	chatID  int64
	content domain.Content
}

type sentForward struct {
	to, from, messageID int64
}

// fakeSender records deliveries and assigns incrementing message ids.
type fakeSender struct {
	nextID int64

	texts    []sentText
	contents []sentContent
	forwards []sentForward
	reacts   int

	failSendText    error
	failSendContent error
	failForward     error
	failReact       error
}

func (s *fakeSender) SendText(ctx context.Context, chatID int64, text string) (int64, error) {
	if s.failSendText != nil {
		return 0, s.failSendText
	}
	s.texts = append(s.texts, sentText{chatID: chatID, text: text})
	return s.assignID(), nil
}

func (s *fakeSender) SendContent(ctx context.Context, chatID int64, content domain.Content) (int64, error) {
	if s.failSendContent != nil {
		return 0, s.failSendContent
	}
	if content.Kind == domain.ContentUnsupported {
		return 0, transport.ErrUnsupportedContent
	}
	s.contents = append(s.contents, sentContent{chatID: chatID, content: content})
	return s.assignID(), nil
}

func (s *fakeSender) Forward(ctx context.Context, toChatID, fromChatID, messageID int64) (int64, error) {
	if s.failForward != nil {
		return 0, s.failForward
	}
	s.forwards = append(s.forwards, sentForward{to: toChatID, from: fromChatID, messageID: messageID})
	return s.assignID(), nil
}

func (s *fakeSender) React(ctx context.Context, chatID, messageID int64, emoji string) error {
	if s.failReact != nil {
		return s.failReact
	}
	s.reacts++
	return nil
}

func (s *fakeSender) assignID() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeSender) textsTo(chatID int64) []string {
	var result []string
	for _, t := range s.texts {
		if t.chatID == chatID {
			result = append(result, t.text)
		}
	}
	return result
}

func strptr(s string) *string { return &s }

func errf(formatStr string, args ...any) error { return fmt.Errorf(formatStr, args...) }
