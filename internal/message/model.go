package message

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("message not found")
	ErrEmptyBody        = errors.New("message body is required")
	ErrRecipientMissing = errors.New("recipient is required")
	ErrSelfMessage      = errors.New("cannot send a message to yourself")
	ErrPermissionDenied = errors.New("permission denied")
)

// Message is a single direct message between two users.
type Message struct {
	ID          string
	SenderID    string
	SenderName  string
	RecipientID string
	Body        string
	Read        bool
	CreatedAt   time.Time
}

// Conversation summarizes a peer's thread for the inbox view: the most
// recent message plus how many of the peer's messages remain unread.
type Conversation struct {
	PeerID      string
	PeerName    string
	LastMessage string
	LastAt      time.Time
	UnreadCount int
}

type Filter struct {
	Page     int
	PageSize int
}
