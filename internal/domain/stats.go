package domain

// DailyCount is one day of the trailing message-volume series.
type DailyCount struct {
	Date  string
	Count int64
}

// Stats is the aggregate view derived from the message log on demand.
// AvgResponseMinutes is nil when no incoming message in the trailing
// seven days has a later outgoing reply in the same ticket.
type Stats struct {
	TotalUsers         int64
	ActiveToday        int64
	OpenTickets        int64
	ClosedTickets      int64
	AvgResponseMinutes *float64
	MessagesLast7Days  []DailyCount
}
