package http

import (
	"time"

	"github.com/varun4522/calm-campus-backend/internal/message"
	"github.com/varun4522/calm-campus-backend/internal/pkg/request"
)

type SendMessageBody struct {
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
	Body        string `json:"body" binding:"required"`
}

type ListConversationRequest struct {
	request.ListParams
}

type MessageResponse struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	RecipientID string    `json:"recipient_id"`
	Body        string    `json:"body"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

type ConversationResponse struct {
	PeerID      string    `json:"peer_id"`
	PeerName    string    `json:"peer_name"`
	LastMessage string    `json:"last_message"`
	LastAt      time.Time `json:"last_at"`
	UnreadCount int       `json:"unread_count"`
}

func NewMessageResponse(m *message.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		SenderName:  m.SenderName,
		RecipientID: m.RecipientID,
		Body:        m.Body,
		Read:        m.Read,
		CreatedAt:   m.CreatedAt,
	}
}

func NewConversationResponse(c *message.Conversation) ConversationResponse {
	return ConversationResponse{
		PeerID:      c.PeerID,
		PeerName:    c.PeerName,
		LastMessage: c.LastMessage,
		LastAt:      c.LastAt,
		UnreadCount: c.UnreadCount,
	}
}
