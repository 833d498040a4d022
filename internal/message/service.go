package message

import (
	"context"
	"strings"

	"github.com/varun4522/calm-campus-backend/internal/user"
)

type SendRequest struct {
	SenderID    string
	RecipientID string
	Body        string
}

type Service interface {
	Send(ctx context.Context, req SendRequest) (*Message, error)
	ListConversation(ctx context.Context, userID, peerID string, filter Filter) ([]*Message, int, error)
	ListInbox(ctx context.Context, userID string) ([]*Conversation, error)
	MarkRead(ctx context.Context, userID, peerID string) (int, error)
}

type service struct {
	repo        Repository
	userService user.Service
}

func NewService(repo Repository, userService user.Service) Service {
	return &service{repo: repo, userService: userService}
}

func (s *service) Send(ctx context.Context, req SendRequest) (*Message, error) {
	if strings.TrimSpace(req.Body) == "" {
		return nil, ErrEmptyBody
	}
	if req.RecipientID == "" {
		return nil, ErrRecipientMissing
	}
	if req.RecipientID == req.SenderID {
		return nil, ErrSelfMessage
	}

	sender, err := s.userService.GetByID(ctx, req.SenderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userService.GetByID(ctx, req.RecipientID); err != nil {
		return nil, err
	}

	senderName := sender.Email
	if sender.DisplayName != nil && *sender.DisplayName != "" {
		senderName = *sender.DisplayName
	}

	m := &Message{
		SenderID:    req.SenderID,
		SenderName:  senderName,
		RecipientID: req.RecipientID,
		Body:        req.Body,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) ListConversation(ctx context.Context, userID, peerID string, filter Filter) ([]*Message, int, error) {
	return s.repo.ListConversation(ctx, userID, peerID, filter)
}

func (s *service) ListInbox(ctx context.Context, userID string) ([]*Conversation, error) {
	conversations, err := s.repo.ListInbox(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Threads whose latest message the user sent carry no peer name from
	// the query; resolve those from the user service.
	for _, c := range conversations {
		if c.PeerName != "" {
			continue
		}
		peer, err := s.userService.GetByID(ctx, c.PeerID)
		if err != nil {
			continue
		}
		c.PeerName = peer.Email
		if peer.DisplayName != nil && *peer.DisplayName != "" {
			c.PeerName = *peer.DisplayName
		}
	}

	return conversations, nil
}

func (s *service) MarkRead(ctx context.Context, userID, peerID string) (int, error) {
	return s.repo.MarkRead(ctx, userID, peerID)
}
