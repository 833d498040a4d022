package emergency

import (
	"context"
	"time"

	"github.com/varun4522/calm-campus-backend/internal/user"
)

type ShareRequest struct {
	UserID    string
	Latitude  float64
	Longitude float64
	Address   string
	Note      string
}

type Service interface {
	Share(ctx context.Context, req ShareRequest) (*LocationShare, error)
	ListRecent(ctx context.Context, filter Filter) ([]*LocationShare, int, error)
	Delete(ctx context.Context, id string, actorID string, isAdmin bool) error
}

type service struct {
	repo        Repository
	userService user.Service
}

func NewService(repo Repository, userService user.Service) Service {
	return &service{repo: repo, userService: userService}
}

func (s *service) Share(ctx context.Context, req ShareRequest) (*LocationShare, error) {
	if req.Latitude < -90 || req.Latitude > 90 {
		return nil, ErrInvalidLatitude
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return nil, ErrInvalidLongitude
	}

	u, err := s.userService.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	userName := u.Email
	if u.DisplayName != nil && *u.DisplayName != "" {
		userName = *u.DisplayName
	}

	ls := &LocationShare{
		UserID:    req.UserID,
		UserName:  userName,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Address:   req.Address,
		Note:      req.Note,
	}

	if err := s.repo.Create(ctx, ls); err != nil {
		return nil, err
	}
	return ls, nil
}

// ListRecent defaults to shares from the last 24 hours; stale points are
// of no use to a responder.
func (s *service) ListRecent(ctx context.Context, filter Filter) ([]*LocationShare, int, error) {
	if filter.Since.IsZero() {
		filter.Since = time.Now().Add(-24 * time.Hour)
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Delete(ctx context.Context, id string, actorID string, isAdmin bool) error {
	ls, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && ls.UserID != actorID {
		return ErrPermissionDenied
	}
	return s.repo.Delete(ctx, id)
}
