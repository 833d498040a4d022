package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/varun4522/calm-campus-backend/internal/user"
)

// SlotInput is one window in a provider's publish request.
type SlotInput struct {
	StartTime string
	EndTime   string
}

type Service interface {
	// PublishSlots creates the given windows on a date for the calling
	// provider. Passing no windows publishes the default daily grid.
	PublishSlots(ctx context.Context, providerID, date string, inputs []SlotInput) ([]*Slot, error)

	// MonthSchedule returns every slot of the provider in the calendar
	// month containing anchorDate, keyed by date. Booked state is
	// already resolved, so the calendar renders without further
	// round trips.
	MonthSchedule(ctx context.Context, providerID, anchorDate string) (map[string][]*Slot, error)

	SetAvailability(ctx context.Context, id string, available bool, actorID string, isAdmin bool) (*Slot, error)
	Delete(ctx context.Context, id string, actorID string, isAdmin bool) error
}

type service struct {
	repo        Repository
	userService user.Service
}

func NewService(repo Repository, userService user.Service) Service {
	return &service{repo: repo, userService: userService}
}

func (s *service) PublishSlots(ctx context.Context, providerID, date string, inputs []SlotInput) ([]*Slot, error) {
	provider, err := s.userService.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if !provider.Role.IsProvider() {
		return nil, ErrPermissionDenied
	}

	cleanDate, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	if len(inputs) == 0 {
		for _, d := range DefaultSlots {
			inputs = append(inputs, SlotInput{StartTime: d.Start, EndTime: d.End})
		}
	}

	var created []*Slot
	for _, in := range inputs {
		start, err := normalizeTime(in.StartTime)
		if err != nil {
			return created, err
		}
		end, err := normalizeTime(in.EndTime)
		if err != nil {
			return created, err
		}
		if start >= end {
			return created, ErrInvalidTimeRange
		}

		slot := &Slot{
			ProviderID:   provider.ID,
			ProviderType: string(provider.Role),
			Date:         cleanDate,
			StartTime:    start,
			EndTime:      end,
			IsAvailable:  true,
		}
		if err := s.repo.Create(ctx, slot); err != nil {
			// Re-publishing a date skips windows that already exist.
			if errors.Is(err, ErrSlotExists) {
				continue
			}
			return created, err
		}
		created = append(created, slot)
	}
	return created, nil
}

func (s *service) MonthSchedule(ctx context.Context, providerID, anchorDate string) (map[string][]*Slot, error) {
	anchor, err := time.Parse("2006-01-02", strings.TrimSpace(anchorDate))
	if err != nil {
		return nil, ErrInvalidDate
	}

	n := now.New(anchor)
	from := n.BeginningOfMonth().Format("2006-01-02")
	to := n.EndOfMonth().Format("2006-01-02")

	slots, err := s.repo.ListForProviderRange(ctx, providerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load month schedule: %w", err)
	}

	schedule := make(map[string][]*Slot)
	for _, slot := range slots {
		schedule[slot.Date] = append(schedule[slot.Date], slot)
	}
	return schedule, nil
}

func (s *service) SetAvailability(ctx context.Context, id string, available bool, actorID string, isAdmin bool) (*Slot, error) {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && slot.ProviderID != actorID {
		return nil, ErrPermissionDenied
	}

	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		return nil, err
	}
	slot.IsAvailable = available
	return slot, nil
}

func (s *service) Delete(ctx context.Context, id string, actorID string, isAdmin bool) error {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && slot.ProviderID != actorID {
		return ErrPermissionDenied
	}
	return s.repo.Delete(ctx, id)
}

func parseDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return "", ErrInvalidDate
	}
	return raw, nil
}

func normalizeTime(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("15:04:05", raw); err == nil {
		return t.Format("15:04"), nil
	}
	if t, err := time.Parse("15:04", raw); err == nil {
		return t.Format("15:04"), nil
	}
	return "", ErrInvalidTime
}
