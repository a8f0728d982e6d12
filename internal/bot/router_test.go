package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tgdesk/supportbot/internal/domain"
	"github.com/tgdesk/supportbot/internal/service"
	"github.com/tgdesk/supportbot/internal/transport"
	"github.com/tgdesk/supportbot/pkg/util"
)

const adminID int64 = 999

type relayCall struct {
	method string
	userID int64
}

type stubRelay struct {
	calls     []relayCall
	delivered []int64
}

func (s *stubRelay) TrackUser(ctx context.Context, id int64, username, firstName, lastName *string) (*domain.User, error) {
	s.calls = append(s.calls, relayCall{method: "TrackUser", userID: id})
	return &domain.User{ID: id, Username: username, FirstName: firstName, LastName: lastName}, nil
}

func (s *stubRelay) ForwardToAdmin(ctx context.Context, user *domain.User, inbound service.Inbound) error {
	s.calls = append(s.calls, relayCall{method: "ForwardToAdmin", userID: user.ID})
	return nil
}

func (s *stubRelay) DeliverAdminReply(ctx context.Context, adminMsgID, repliedToID int64, content domain.Content) error {
	s.delivered = append(s.delivered, repliedToID)
	return nil
}

func (s *stubRelay) AdminChatID() int64 { return adminID }

type stubAdmin struct {
	blocked     []int64
	unblocked   []int64
	closedIDs   []int64
	quickAdds   map[string]string
	quickDels   []string
	sentQuick   []string
	statsCalled bool

	closeErr     error
	sendQuickErr error
}

func newStubAdmin() *stubAdmin {
	return &stubAdmin{quickAdds: make(map[string]string)}
}

func (s *stubAdmin) Stats(ctx context.Context) (*domain.Stats, error) {
	s.statsCalled = true
	return &domain.Stats{}, nil
}

func (s *stubAdmin) UserInfo(ctx context.Context, id int64) (*domain.User, *domain.UserStats, error) {
	if id != 42 {
		return nil, nil, util.NewNotFound("user", nil)
	}
	return &domain.User{ID: id}, &domain.UserStats{}, nil
}

func (s *stubAdmin) Block(ctx context.Context, id int64) (bool, error) {
	s.blocked = append(s.blocked, id)
	return id == 42, nil
}

func (s *stubAdmin) Unblock(ctx context.Context, id int64) (bool, error) {
	s.unblocked = append(s.unblocked, id)
	return id == 42, nil
}

func (s *stubAdmin) CloseByAdminMessage(ctx context.Context, adminMessageID int64) (*domain.Ticket, bool, error) {
	if s.closeErr != nil {
		return nil, false, s.closeErr
	}
	s.closedIDs = append(s.closedIDs, adminMessageID)
	return &domain.Ticket{ID: 7, Status: domain.TicketStatusClosed}, true, nil
}

func (s *stubAdmin) QuickList(ctx context.Context) ([]domain.QuickReply, error) {
	var result []domain.QuickReply
	for shortcut, text := range s.quickAdds {
		result = append(result, domain.QuickReply{Shortcut: shortcut, Text: text})
	}
	return result, nil
}

func (s *stubAdmin) QuickAdd(ctx context.Context, shortcut, text string) (*domain.QuickReply, error) {
	s.quickAdds[shortcut] = text
	return &domain.QuickReply{Shortcut: shortcut, Text: text}, nil
}

func (s *stubAdmin) QuickDelete(ctx context.Context, shortcut string) (bool, error) {
	s.quickDels = append(s.quickDels, shortcut)
	return shortcut == "faq", nil
}

func (s *stubAdmin) SendQuick(ctx context.Context, repliedToID int64, shortcut string) error {
	if s.sendQuickErr != nil {
		return s.sendQuickErr
	}
	s.sentQuick = append(s.sentQuick, shortcut)
	return nil
}

type recordingSender struct {
	texts map[int64][]string
}

func newRecordingSender() *recordingSender {
	return &recordingSender{texts: make(map[int64][]string)}
}

func (s *recordingSender) SendText(ctx context.Context, chatID int64, text string) (int64, error) {
	s.texts[chatID] = append(s.texts[chatID], text)
	return 1, nil
}

func (s *recordingSender) SendContent(ctx context.Context, chatID int64, content domain.Content) (int64, error) {
	return 1, nil
}

func (s *recordingSender) Forward(ctx context.Context, toChatID, fromChatID, messageID int64) (int64, error) {
	return 1, nil
}

func (s *recordingSender) React(ctx context.Context, chatID, messageID int64, emoji string) error {
	return nil
}

func (s *recordingSender) lastAdminText(t *testing.T) string {
	t.Helper()
	notices := s.texts[adminID]
	require.NotEmpty(t, notices)
	return notices[len(notices)-1]
}

type routerFixture struct {
	relay  *stubRelay
	admin  *stubAdmin
	sender *recordingSender
	router *Router
}

func newRouterFixture() *routerFixture {
	relay := &stubRelay{}
	admin := newStubAdmin()
	sender := newRecordingSender()
	return &routerFixture{
		relay:  relay,
		admin:  admin,
		sender: sender,
		router: NewRouter(relay, admin, sender, zap.NewNop()),
	}
}

func userMessage(userID int64, text string) transport.Update {
	return transport.Update{
		ChatID:    userID,
		SenderID:  userID,
		MessageID: 100,
		Text:      text,
		Content:   domain.TextContent(text),
	}
}

func adminMessage(text string) transport.Update {
	return transport.Update{
		ChatID:    adminID,
		SenderID:  adminID,
		MessageID: 200,
		Text:      text,
		Content:   domain.TextContent(text),
	}
}

func adminReply(text string, replyTo int64) transport.Update {
	u := adminMessage(text)
	u.ReplyToID = &replyTo
	return u
}

func TestUserMessageIsTrackedAndForwarded(t *testing.T) {
	f := newRouterFixture()

	f.router.HandleMessage(context.Background(), userMessage(42, "help me"))

	require.Len(t, f.relay.calls, 2)
	assert.Equal(t, relayCall{method: "TrackUser", userID: 42}, f.relay.calls[0])
	assert.Equal(t, relayCall{method: "ForwardToAdmin", userID: 42}, f.relay.calls[1])
}

func TestUserStartTracksAndWelcomes(t *testing.T) {
	f := newRouterFixture()

	f.router.HandleMessage(context.Background(), userMessage(42, "/start"))

	// the upsert happens even when nothing is forwarded
	require.Len(t, f.relay.calls, 1)
	assert.Equal(t, relayCall{method: "TrackUser", userID: 42}, f.relay.calls[0])
	require.Len(t, f.sender.texts[42], 1)
	assert.Contains(t, f.sender.texts[42][0], "Welcome")
}

func TestUserStartPrefixIsNotStart(t *testing.T) {
	f := newRouterFixture()

	f.router.HandleMessage(context.Background(), userMessage(42, "/startup logs please"))

	require.Len(t, f.relay.calls, 2)
	assert.Equal(t, relayCall{method: "ForwardToAdmin", userID: 42}, f.relay.calls[1])
	assert.Empty(t, f.sender.texts[42])
}

func TestAdminPlainReplyIsDelivered(t *testing.T) {
	f := newRouterFixture()

	f.router.HandleMessage(context.Background(), adminReply("thanks, fixed", 555))

	assert.Equal(t, []int64{555}, f.relay.delivered)
}

func TestAdminNonReplyNonCommandIgnored(t *testing.T) {
	f := newRouterFixture()

	f.router.HandleMessage(context.Background(), adminMessage("just a note to self"))

	assert.Empty(t, f.relay.delivered)
	assert.Empty(t, f.sender.texts)
}

func TestStatsCommand(t *testing.T) {
	f := newRouterFixture()

	f.router.HandleMessage(context.Background(), adminMessage("/stats"))

	assert.True(t, f.admin.statsCalled)
	assert.Contains(t, f.sender.lastAdminText(t), "statistics")
}

func TestUserCommandValidation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "missing argument", text: "/user", want: usageUser},
		{name: "non-numeric id", text: "/user abc", want: idMustBeNumber},
		{name: "unknown user", text: "/user 777", want: userNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture()
			f.router.HandleMessage(context.Background(), adminMessage(tt.text))
			assert.Equal(t, tt.want, f.sender.lastAdminText(t))
		})
	}
}

func TestBlockCommands(t *testing.T) {
	f := newRouterFixture()
	ctx := context.Background()

	f.router.HandleMessage(ctx, adminMessage("/block 42"))
	assert.Equal(t, []int64{42}, f.admin.blocked)
	assert.Contains(t, f.sender.lastAdminText(t), "blocked")

	f.router.HandleMessage(ctx, adminMessage("/unblock 42"))
	assert.Equal(t, []int64{42}, f.admin.unblocked)
	assert.Contains(t, f.sender.lastAdminText(t), "unblocked")

	f.router.HandleMessage(ctx, adminMessage("/block 777"))
	assert.Equal(t, userNotFound, f.sender.lastAdminText(t))

	f.router.HandleMessage(ctx, adminMessage("/block nope"))
	assert.Equal(t, idMustBeNumber, f.sender.lastAdminText(t))
}

func TestCloseRequiresReply(t *testing.T) {
	f := newRouterFixture()

	f.router.HandleMessage(context.Background(), adminMessage("/close"))

	assert.Empty(t, f.admin.closedIDs)
	assert.Equal(t, replyForClose, f.sender.lastAdminText(t))
}

func TestCloseByReply(t *testing.T) {
	f := newRouterFixture()

	f.router.HandleMessage(context.Background(), adminReply("/close", 555))

	assert.Equal(t, []int64{555}, f.admin.closedIDs)
	assert.Contains(t, f.sender.lastAdminText(t), "closed")
}

func TestCloseUnknownTicket(t *testing.T) {
	f := newRouterFixture()
	f.admin.closeErr = util.NewNotFound("ticket", nil)

	f.router.HandleMessage(context.Background(), adminReply("/close", 555))

	assert.Equal(t, ticketNotFound, f.sender.lastAdminText(t))
}

func TestQuickCommands(t *testing.T) {
	f := newRouterFixture()
	ctx := context.Background()

	f.router.HandleMessage(ctx, adminMessage("/quick"))
	assert.Equal(t, noQuickReplies, f.sender.lastAdminText(t))

	f.router.HandleMessage(ctx, adminMessage("/quick add faq Please see our FAQ"))
	assert.Equal(t, "Please see our FAQ", f.admin.quickAdds["faq"])
	assert.Contains(t, f.sender.lastAdminText(t), "saved")

	f.router.HandleMessage(ctx, adminMessage("/quick"))
	assert.Contains(t, f.sender.lastAdminText(t), "/faq")

	f.router.HandleMessage(ctx, adminMessage("/quick add faq"))
	assert.Equal(t, usageQuickAdd, f.sender.lastAdminText(t))

	f.router.HandleMessage(ctx, adminMessage("/quick del faq"))
	assert.Equal(t, []string{"faq"}, f.admin.quickDels)
	assert.Contains(t, f.sender.lastAdminText(t), "deleted")

	f.router.HandleMessage(ctx, adminMessage("/quick del missing"))
	assert.Contains(t, f.sender.lastAdminText(t), "not found")

	f.router.HandleMessage(ctx, adminMessage("/quick frobnicate"))
	assert.Equal(t, usageQuick, f.sender.lastAdminText(t))
}

func TestQuickDelMissingShortcutIsUsage(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "no argument", text: "/quick del"},
		{name: "trailing space", text: "/quick del "},
		{name: "only whitespace", text: "/quick del   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture()
			f.router.HandleMessage(context.Background(), adminMessage(tt.text))
			assert.Empty(t, f.admin.quickDels)
			assert.Equal(t, usageQuickDel, f.sender.lastAdminText(t))
		})
	}
}

func TestSendQuickCommand(t *testing.T) {
	f := newRouterFixture()
	ctx := context.Background()

	f.router.HandleMessage(ctx, adminMessage("/q faq"))
	assert.Equal(t, replyForQuick, f.sender.lastAdminText(t))

	f.router.HandleMessage(ctx, adminReply("/q", 555))
	assert.Equal(t, usageQ, f.sender.lastAdminText(t))

	f.router.HandleMessage(ctx, adminReply("/q faq", 555))
	assert.Equal(t, []string{"faq"}, f.admin.sentQuick)
	assert.Equal(t, sentAck, f.sender.lastAdminText(t))

	f.admin.sendQuickErr = util.NewNotFound("quick reply", nil)
	f.router.HandleMessage(ctx, adminReply("/q missing", 555))
	assert.Contains(t, f.sender.lastAdminText(t), "not found")

	f.admin.sendQuickErr = util.NewNotFound("message", nil)
	f.router.HandleMessage(ctx, adminReply("/q faq", 555))
	assert.Equal(t, messageNotFound, f.sender.lastAdminText(t))
}
