package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/varun4522/calm-campus-backend/internal/events"
	"github.com/varun4522/calm-campus-backend/internal/slotcache"
	"github.com/varun4522/calm-campus-backend/internal/user"
)

// CreateRequest carries a booking attempt from any of the booking surfaces
// (student-to-expert, student-to-peer). Every surface goes through this one
// path so the conflict policy is enforced consistently.
type CreateRequest struct {
	RequesterID string
	ProviderID  string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM or HH:MM:SS
	Mode        string // online (default) or offline
	Notes       string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*SessionRequest, error)
	GetByID(ctx context.Context, id string) (*SessionRequest, error)
	List(ctx context.Context, filter Filter) ([]*SessionRequest, int, error)
	UpdateStatus(ctx context.Context, id string, status Status, actorID string, isAdmin bool) (*SessionRequest, error)
	Delete(ctx context.Context, id string, actorID string, isAdmin bool) error
}

type service struct {
	repo        Repository
	userService user.Service
	cache       slotcache.Cache
	publisher   events.Publisher // may be nil when no broker is configured

	now func() time.Time
}

func NewService(repo Repository, userService user.Service, cache slotcache.Cache, publisher events.Publisher) Service {
	if cache == nil {
		cache = slotcache.Noop{}
	}
	return &service{
		repo:        repo,
		userService: userService,
		cache:       cache,
		publisher:   publisher,
		now:         time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*SessionRequest, error) {
	// 1. Validate required fields. An empty requester aborts before any
	// query is made.
	if strings.TrimSpace(req.RequesterID) == "" {
		return nil, ErrRequesterMissing
	}
	if strings.TrimSpace(req.ProviderID) == "" {
		return nil, ErrProviderMissing
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	slotTime, err := normalizeTime(req.Time)
	if err != nil {
		return nil, err
	}
	mode, err := parseMode(req.Mode)
	if err != nil {
		return nil, err
	}

	if isPast(date, slotTime, s.now()) {
		return nil, ErrSessionInPast
	}

	// 2. Resolve both parties. The provider must be a bookable role.
	requester, err := s.userService.GetByID(ctx, req.RequesterID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrRequesterMissing
		}
		return nil, fmt.Errorf("resolve requester: %w", err)
	}

	provider, err := s.userService.GetByID(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("resolve provider: %w", err)
	}
	if !provider.Role.IsProvider() || !provider.IsActive {
		return nil, ErrProviderNotFound
	}

	// 3. Conflict check: one active session per requester. A query
	// failure blocks the attempt (fail closed) instead of falling
	// through to the insert with an unknown conflict state.
	existing, err := s.repo.FindActiveByRequester(ctx, requester.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.Printf("session: active-session check failed for %s: %v", requester.ID, err)
		return nil, ErrConflictCheckUnavailable
	}
	if existing != nil {
		return nil, conflictError(existing)
	}

	// 4. Slot check, cache first. Only a cached "taken" is trusted and
	// answers immediately; any other answer falls through to the
	// database. Same fail-closed rule.
	if taken, known := s.cache.Lookup(ctx, provider.ID, date, slotTime); known && taken {
		return nil, slotTakenError(displayName(provider), date, slotTime)
	}
	occupying, err := s.repo.FindActiveBySlot(ctx, provider.ID, date, slotTime)
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.Printf("session: slot check failed for %s %s %s: %v", provider.ID, date, slotTime, err)
		return nil, ErrConflictCheckUnavailable
	}
	if occupying != nil {
		s.cache.MarkTaken(ctx, provider.ID, date, slotTime)
		return nil, slotTakenError(displayName(provider), date, slotTime)
	}

	// 5. Insert. The partial unique indexes are the race-safe check; the
	// repository maps a uniqueness violation back onto the conflict
	// errors, so a lost race reads the same as a pre-flight conflict.
	sr := &SessionRequest{
		RequesterID:           requester.ID,
		RequesterName:         displayName(requester),
		RequesterRegistration: requester.RegistrationNumber,
		ProviderID:            provider.ID,
		ProviderName:          displayName(provider),
		ProviderRegistration:  provider.RegistrationNumber,
		ProviderType:          string(provider.Role),
		Date:                  date,
		Time:                  slotTime,
		Mode:                  mode,
		Status:                StatusPending,
		Notes:                 strings.TrimSpace(req.Notes),
	}

	if err := s.repo.Create(ctx, sr); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return nil, slotTakenError(displayName(provider), date, slotTime)
		}
		return nil, err
	}

	// 6. Refresh cached availability and announce the booking.
	s.cache.MarkTaken(ctx, provider.ID, date, slotTime)
	s.publishRequested(ctx, sr)

	return sr, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*SessionRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*SessionRequest, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status, actorID string, isAdmin bool) (*SessionRequest, error) {
	sr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only the booked provider or an admin moves a request through its
	// lifecycle; requesters cannot approve their own booking.
	if !isAdmin && sr.ProviderID != actorID {
		return nil, ErrPermissionDenied
	}

	if !sr.Status.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	oldStatus := sr.Status
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	sr.Status = status
	sr.UpdatedAt = time.Now().UTC()

	// Leaving the active set frees the requester and the slot.
	if oldStatus.IsActive() && !status.IsActive() {
		s.cache.Invalidate(ctx, sr.ProviderID, sr.Date, sr.Time)
	}

	s.publishStatusChanged(ctx, sr, oldStatus)

	return sr, nil
}

func (s *service) Delete(ctx context.Context, id string, actorID string, isAdmin bool) error {
	sr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Either party may delete their request; admins may delete any.
	if !isAdmin && sr.RequesterID != actorID && sr.ProviderID != actorID {
		return ErrPermissionDenied
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// The slot is immediately available again.
	s.cache.Invalidate(ctx, sr.ProviderID, sr.Date, sr.Time)

	return nil
}

func (s *service) publishRequested(ctx context.Context, sr *SessionRequest) {
	if s.publisher == nil {
		return
	}
	evt := events.SessionRequestedEvent{
		SessionID:     sr.ID,
		RequesterID:   sr.RequesterID,
		RequesterName: sr.RequesterName,
		ProviderID:    sr.ProviderID,
		ProviderName:  sr.ProviderName,
		Date:          sr.Date,
		Time:          sr.Time,
		Mode:          string(sr.Mode),
		RequestedAt:   sr.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := s.publisher.SessionRequested(ctx, evt); err != nil {
		log.Printf("session: publish requested event: %v", err)
	}
}

func (s *service) publishStatusChanged(ctx context.Context, sr *SessionRequest, old Status) {
	if s.publisher == nil {
		return
	}
	evt := events.SessionStatusChangedEvent{
		SessionID:   sr.ID,
		RequesterID: sr.RequesterID,
		ProviderID:  sr.ProviderID,
		OldStatus:   string(old),
		NewStatus:   string(sr.Status),
		ChangedAt:   sr.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if err := s.publisher.SessionStatusChanged(ctx, evt); err != nil {
		log.Printf("session: publish status event: %v", err)
	}
}

func displayName(u *user.User) string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Email
}

// parseDate validates YYYY-MM-DD and returns it unchanged.
func parseDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return "", ErrInvalidDate
	}
	return raw, nil
}

// normalizeTime accepts HH:MM or HH:MM:SS and returns the canonical HH:MM.
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

func parseMode(raw string) (Mode, error) {
	switch Mode(strings.TrimSpace(raw)) {
	case "":
		return ModeOnline, nil
	case ModeOnline:
		return ModeOnline, nil
	case ModeOffline:
		return ModeOffline, nil
	}
	return "", ErrInvalidMode
}

func isPast(date, slotTime string, now time.Time) bool {
	at, err := time.ParseInLocation("2006-01-02 15:04", date+" "+slotTime, now.Location())
	if err != nil {
		return false
	}
	return at.Before(now)
}
