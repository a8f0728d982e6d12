package domain

// QuickReply is a canned response the admin can send by shortcut.
type QuickReply struct {
	ID       int64
	Shortcut string
	Text     string
}
