package bot

const welcomeText = `👋 Welcome to support!

Describe your problem or ask a question and we will reply as soon as possible.

You can send:
• Text messages
• Photos and screenshots
• Documents and files
• Voice messages`

const (
	usageUser     = "Usage: /user <id>"
	usageBlock    = "Usage: /block <id>"
	usageUnblock  = "Usage: /unblock <id>"
	usageQuick    = "Usage:\n/quick — list\n/quick add <shortcut> <text>\n/quick del <shortcut>"
	usageQuickAdd = "Usage: /quick add <shortcut> <text>"
	usageQuickDel = "Usage: /quick del <shortcut>"
	usageQ        = "Usage: /q <shortcut>"

	idMustBeNumber   = "ID must be a number"
	replyForClose    = "Reply to a user's message with /close"
	replyForQuick    = "Reply to a user's message with /q <shortcut>"
	userNotFound     = "User not found"
	ticketNotFound   = "Ticket not found"
	messageNotFound  = "Message not found in the database"
	noQuickReplies   = "No quick replies configured. Add one: /quick add <shortcut> <text>"
	quickListHeader  = "📝 Quick replies:\n"
	sentAck          = "✅ Sent"
	userBlockedFmt   = "User %d blocked"
	userUnblockedFmt = "User %d unblocked"
	ticketClosedFmt  = "Ticket #%d closed"
	alreadyClosedFmt = "Ticket #%d is already closed"
	quickSavedFmt    = "Quick reply %q saved"
	quickDeletedFmt  = "Quick reply %q deleted"
	quickMissingFmt  = "Quick reply %q not found"
	sendErrorFmt     = "Send error: %v"
)
