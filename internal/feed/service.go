package feed

import (
	"context"
	"strings"
)

type CreateRequest struct {
	AuthorID   string
	AuthorName string
	AuthorRole string
	Title      string
	Body       string
}

type UpdateRequest struct {
	Title *string
	Body  *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Post, error)
	GetByID(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context, filter Filter) ([]*Post, int, error)
	Update(ctx context.Context, id string, req UpdateRequest, actorID string, isAdmin bool) (*Post, error)
	Delete(ctx context.Context, id string, actorID string, isAdmin bool) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Post, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, ErrBodyRequired
	}

	p := &Post{
		AuthorID:   req.AuthorID,
		AuthorName: req.AuthorName,
		AuthorRole: req.AuthorRole,
		Title:      req.Title,
		Body:       req.Body,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Post, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, actorID string, isAdmin bool) (*Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && p.AuthorID != actorID {
		return nil, ErrPermissionDenied
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrTitleRequired
		}
		p.Title = *req.Title
	}

	if req.Body != nil {
		if strings.TrimSpace(*req.Body) == "" {
			return nil, ErrBodyRequired
		}
		p.Body = *req.Body
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string, actorID string, isAdmin bool) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && p.AuthorID != actorID {
		return ErrPermissionDenied
	}
	return s.repo.Delete(ctx, id)
}
