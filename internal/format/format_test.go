package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tgdesk/supportbot/internal/domain"
)

func strptr(s string) *string { return &s }

func testUser() *domain.User {
	return &domain.User{
		ID:        42,
		Username:  strptr("alice"),
		FirstName: strptr("Alice"),
		LastName:  strptr("Smith"),
		CreatedAt: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
	}
}

func TestUserCard(t *testing.T) {
	ticket := &domain.Ticket{ID: 7, UserID: 42, Status: domain.TicketStatusOpen}
	stats := &domain.UserStats{MessageCount: 12, TicketCount: 3}

	card := UserCard(testUser(), ticket, stats)

	assert.Contains(t, card, "Alice Smith (@alice)")
	assert.Contains(t, card, "ID: 42")
	assert.Contains(t, card, "Messages: 12 | Tickets: 3")
	assert.Contains(t, card, "First contact: 2026-03-14")
	assert.Contains(t, card, "Ticket #7 (open)")
}

func TestUserCardAnonymousUser(t *testing.T) {
	user := &domain.User{ID: 42}
	ticket := &domain.Ticket{ID: 7, Status: domain.TicketStatusOpen}

	card := UserCard(user, ticket, &domain.UserStats{})

	assert.Contains(t, card, "Unknown (none)")
	assert.Contains(t, card, "First contact: —")
}

func TestUserInfoBlockedFlag(t *testing.T) {
	user := testUser()
	user.IsBlocked = true
	last := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	user.LastMessageAt = &last

	info := UserInfo(user, &domain.UserStats{MessageCount: 5, TicketCount: 1})

	assert.Contains(t, info, "Blocked: 🚫 Yes")
	assert.Contains(t, info, "Last message: 2026-03-15 09:00")
	assert.Contains(t, info, "First contact: 2026-03-14 10:30")
}

func TestStatsReportWithoutActivity(t *testing.T) {
	report := StatsReport(&domain.Stats{})

	assert.Contains(t, report, "Total users: 0")
	assert.Contains(t, report, "Avg response time: —")
	assert.NotContains(t, report, "last 7 days")
}

func TestStatsReportWithChart(t *testing.T) {
	avg := 12.34
	report := StatsReport(&domain.Stats{
		TotalUsers:         10,
		ActiveToday:        3,
		OpenTickets:        2,
		ClosedTickets:      8,
		AvgResponseMinutes: &avg,
		MessagesLast7Days: []domain.DailyCount{
			{Date: "2026-03-13", Count: 15},
			{Date: "2026-03-14", Count: 200},
		},
	})

	assert.Contains(t, report, "Avg response time: 12.3 min")
	assert.Contains(t, report, "2026-03-13: "+strings.Repeat("█", 3)+" 15")
	// bars cap at 20 blocks regardless of volume
	assert.Contains(t, report, "2026-03-14: "+strings.Repeat("█", 20)+" 200")
}

func TestBarWidth(t *testing.T) {
	assert.Equal(t, 0, barWidth(4))
	assert.Equal(t, 1, barWidth(5))
	assert.Equal(t, 20, barWidth(100))
	assert.Equal(t, 20, barWidth(10000))
}
