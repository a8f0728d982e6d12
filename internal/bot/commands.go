package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tgdesk/supportbot/internal/format"
	"github.com/tgdesk/supportbot/internal/transport"
	"github.com/tgdesk/supportbot/pkg/util"
)

func (r *Router) cmdStats(ctx context.Context) {
	stats, err := r.admin.Stats(ctx)
	if err != nil {
		r.logger.Error("stats collection failed", zap.Error(err))
		return
	}
	r.reply(ctx, format.StatsReport(stats))
}

func (r *Router) cmdUser(ctx context.Context, u transport.Update) {
	id, ok := r.parseIDArg(ctx, u.Text, usageUser)
	if !ok {
		return
	}

	user, stats, err := r.admin.UserInfo(ctx, id)
	if err != nil {
		if util.IsNotFound(err) {
			r.reply(ctx, userNotFound)
			return
		}
		r.logger.Error("user lookup failed", zap.Int64("user_id", id), zap.Error(err))
		return
	}
	r.reply(ctx, format.UserInfo(user, stats))
}

func (r *Router) cmdSetBlocked(ctx context.Context, u transport.Update, blocked bool) {
	usage := usageBlock
	if !blocked {
		usage = usageUnblock
	}
	id, ok := r.parseIDArg(ctx, u.Text, usage)
	if !ok {
		return
	}

	var affected bool
	var err error
	if blocked {
		affected, err = r.admin.Block(ctx, id)
	} else {
		affected, err = r.admin.Unblock(ctx, id)
	}
	if err != nil {
		r.logger.Error("block toggle failed", zap.Int64("user_id", id), zap.Error(err))
		return
	}
	if !affected {
		r.reply(ctx, userNotFound)
		return
	}
	if blocked {
		r.reply(ctx, fmt.Sprintf(userBlockedFmt, id))
	} else {
		r.reply(ctx, fmt.Sprintf(userUnblockedFmt, id))
	}
}

func (r *Router) cmdClose(ctx context.Context, u transport.Update) {
	if !u.IsReply() {
		r.reply(ctx, replyForClose)
		return
	}

	ticket, closedNow, err := r.admin.CloseByAdminMessage(ctx, *u.ReplyToID)
	if err != nil {
		if util.IsNotFound(err) {
			r.reply(ctx, ticketNotFound)
			return
		}
		r.logger.Error("ticket close failed", zap.Error(err))
		return
	}
	if !closedNow {
		r.reply(ctx, fmt.Sprintf(alreadyClosedFmt, ticket.ID))
		return
	}
	r.reply(ctx, fmt.Sprintf(ticketClosedFmt, ticket.ID))
}

func (r *Router) cmdQuick(ctx context.Context, u transport.Update) {
	args := strings.SplitN(u.Text, " ", 3)

	if len(args) == 1 {
		r.quickList(ctx)
		return
	}

	switch args[1] {
	case "add":
		if len(args) < 3 {
			r.reply(ctx, usageQuickAdd)
			return
		}
		parts := strings.SplitN(args[2], " ", 2)
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			r.reply(ctx, usageQuickAdd)
			return
		}
		if _, err := r.admin.QuickAdd(ctx, parts[0], parts[1]); err != nil {
			r.logger.Error("quick reply save failed", zap.Error(err))
			return
		}
		r.reply(ctx, fmt.Sprintf(quickSavedFmt, parts[0]))
	case "del":
		if len(args) < 3 {
			r.reply(ctx, usageQuickDel)
			return
		}
		// args[2] may be pure whitespace, e.g. a trailing space after "del"
		fields := strings.Fields(args[2])
		if len(fields) == 0 {
			r.reply(ctx, usageQuickDel)
			return
		}
		shortcut := fields[0]
		deleted, err := r.admin.QuickDelete(ctx, shortcut)
		if err != nil {
			r.logger.Error("quick reply delete failed", zap.Error(err))
			return
		}
		if deleted {
			r.reply(ctx, fmt.Sprintf(quickDeletedFmt, shortcut))
		} else {
			r.reply(ctx, fmt.Sprintf(quickMissingFmt, shortcut))
		}
	default:
		r.reply(ctx, usageQuick)
	}
}

func (r *Router) quickList(ctx context.Context) {
	replies, err := r.admin.QuickList(ctx)
	if err != nil {
		r.logger.Error("quick reply list failed", zap.Error(err))
		return
	}
	if len(replies) == 0 {
		r.reply(ctx, noQuickReplies)
		return
	}

	var b strings.Builder
	b.WriteString(quickListHeader)
	for _, reply := range replies {
		preview := reply.Text
		if len(preview) > 50 {
			preview = preview[:50] + "..."
		}
		fmt.Fprintf(&b, "\n• /%s — %s", reply.Shortcut, preview)
	}
	r.reply(ctx, b.String())
}

func (r *Router) cmdSendQuick(ctx context.Context, u transport.Update) {
	if !u.IsReply() {
		r.reply(ctx, replyForQuick)
		return
	}

	args := strings.SplitN(u.Text, " ", 2)
	if len(args) < 2 || strings.TrimSpace(args[1]) == "" {
		r.reply(ctx, usageQ)
		return
	}
	shortcut := strings.TrimSpace(args[1])

	err := r.admin.SendQuick(ctx, *u.ReplyToID, shortcut)
	if err != nil {
		domainErr := util.ToDomainError(err)
		switch domainErr.Code {
		case "NOT_FOUND":
			if strings.Contains(domainErr.Message, "quick reply") {
				r.reply(ctx, fmt.Sprintf(quickMissingFmt, shortcut))
			} else {
				r.reply(ctx, messageNotFound)
			}
		case "DELIVERY_FAILED":
			r.reply(ctx, fmt.Sprintf(sendErrorFmt, domainErr.Unwrap()))
		default:
			r.logger.Error("quick reply send failed", zap.Error(err))
		}
		return
	}
	r.reply(ctx, sentAck)
}

// parseIDArg extracts and validates the numeric id argument of a
// single-argument command, reporting usage problems to the admin.
func (r *Router) parseIDArg(ctx context.Context, text, usage string) (int64, bool) {
	args := strings.Fields(text)
	if len(args) < 2 {
		r.reply(ctx, usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		r.reply(ctx, idMustBeNumber)
		return 0, false
	}
	return id, true
}
