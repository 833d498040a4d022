package notification

import (
	"context"
	"strings"
)

type CreateRequest struct {
	SenderID   string
	SenderName string
	SenderRole string
	Title      string
	Message    string
	Audience   string
	Priority   string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Notification, error)
	GetByID(ctx context.Context, id string) (*Notification, error)
	ListForRole(ctx context.Context, role string, page, pageSize int) ([]*Notification, int, error)
	ListBySender(ctx context.Context, senderID string, page, pageSize int) ([]*Notification, int, error)
	Delete(ctx context.Context, id string, actorID string, isAdmin bool) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Notification, error) {
	if req.SenderRole != "expert" && req.SenderRole != "admin" {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrMessageRequired
	}

	audience, err := ParseAudience(req.Audience)
	if err != nil {
		return nil, err
	}

	priority := PriorityMedium
	if req.Priority != "" {
		priority, err = ParsePriority(req.Priority)
		if err != nil {
			return nil, err
		}
	}

	n := &Notification{
		SenderID:   req.SenderID,
		SenderName: req.SenderName,
		SenderRole: req.SenderRole,
		Title:      req.Title,
		Message:    req.Message,
		Audience:   audience,
		Priority:   priority,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Notification, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListForRole(ctx context.Context, role string, page, pageSize int) ([]*Notification, int, error) {
	return s.repo.List(ctx, Filter{
		Audience: AudienceForRole(role),
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *service) ListBySender(ctx context.Context, senderID string, page, pageSize int) ([]*Notification, int, error) {
	return s.repo.List(ctx, Filter{
		SenderID: senderID,
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *service) Delete(ctx context.Context, id string, actorID string, isAdmin bool) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && n.SenderID != actorID {
		return ErrPermissionDenied
	}
	return s.repo.Delete(ctx, id)
}
