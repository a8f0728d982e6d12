package format

import (
	"fmt"
	"strings"

	"github.com/tgdesk/supportbot/internal/domain"
)

// Notices shared between the relay and the command surface.
const (
	BlockedNotice            = "You are blocked from contacting support."
	UserNotFoundNotice       = "User not found"
	UnsupportedContentNotice = "This message type is not supported"
	DeliveryFailedNotice     = "Delivery failed: %v"
	SentNotice               = "✅ Sent"
	TicketClosedUserNotice   = "Your ticket #%d has been closed. Write again if you need more help."
)

// UserCard renders the context card delivered to the admin ahead of each
// forwarded message.
func UserCard(user *domain.User, ticket *domain.Ticket, stats *domain.UserStats) string {
	firstContact := "—"
	if !user.CreatedAt.IsZero() {
		firstContact = user.CreatedAt.Format("2006-01-02")
	}

	return fmt.Sprintf(
		"📨 New message\n\n"+
			"👤 Name: %s (%s)\n"+
			"🆔 ID: %d\n"+
			"📊 Messages: %d | Tickets: %d\n"+
			"🕐 First contact: %s\n"+
			"📝 Ticket #%d (%s)\n"+
			"───────────────────",
		displayName(user), displayUsername(user),
		user.ID,
		stats.MessageCount, stats.TicketCount,
		firstContact,
		ticket.ID, ticket.Status,
	)
}

// UserInfo renders the /user lookup response.
func UserInfo(user *domain.User, stats *domain.UserStats) string {
	firstContact := "—"
	if !user.CreatedAt.IsZero() {
		firstContact = user.CreatedAt.Format("2006-01-02 15:04")
	}
	lastMessage := "—"
	if user.LastMessageAt != nil {
		lastMessage = user.LastMessageAt.Format("2006-01-02 15:04")
	}
	blocked := "✅ No"
	if user.IsBlocked {
		blocked = "🚫 Yes"
	}

	return fmt.Sprintf(
		"👤 User info\n\n"+
			"🆔 ID: %d\n"+
			"📛 Name: %s\n"+
			"🔗 Username: %s\n"+
			"📊 Messages: %d\n"+
			"🎫 Tickets: %d\n"+
			"🕐 First contact: %s\n"+
			"💬 Last message: %s\n"+
			"🔒 Blocked: %s",
		user.ID,
		displayName(user),
		displayUsername(user),
		stats.MessageCount,
		stats.TicketCount,
		firstContact,
		lastMessage,
		blocked,
	)
}

// StatsReport renders the /stats response with a 7-day volume chart.
func StatsReport(stats *domain.Stats) string {
	avgResponse := "—"
	if stats.AvgResponseMinutes != nil {
		avgResponse = fmt.Sprintf("%.1f min", *stats.AvgResponseMinutes)
	}

	lines := []string{
		"📊 Bot statistics\n",
		fmt.Sprintf("👥 Total users: %d", stats.TotalUsers),
		fmt.Sprintf("🟢 Active today: %d", stats.ActiveToday),
		fmt.Sprintf("📬 Open tickets: %d", stats.OpenTickets),
		fmt.Sprintf("✅ Closed tickets: %d", stats.ClosedTickets),
		fmt.Sprintf("⏱ Avg response time: %s", avgResponse),
	}

	if len(stats.MessagesLast7Days) > 0 {
		lines = append(lines, "\n📈 Messages over the last 7 days:")
		for _, day := range stats.MessagesLast7Days {
			bar := strings.Repeat("█", barWidth(day.Count))
			lines = append(lines, fmt.Sprintf("  %s: %s %d", day.Date, bar, day.Count))
		}
	}

	return strings.Join(lines, "\n")
}

func barWidth(count int64) int {
	width := int(count / 5)
	if width > 20 {
		return 20
	}
	return width
}

func displayName(user *domain.User) string {
	if name := user.FullName(); name != "" {
		return name
	}
	return "Unknown"
}

func displayUsername(user *domain.User) string {
	if user.Username != nil && *user.Username != "" {
		return "@" + *user.Username
	}
	return "none"
}
