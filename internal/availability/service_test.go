package availability

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varun4522/calm-campus-backend/internal/user"
)

type fakeRepo struct {
	slots  map[string]*Slot
	nextID int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{slots: map[string]*Slot{}}
}

func (r *fakeRepo) Create(ctx context.Context, slot *Slot) error {
	for _, s := range r.slots {
		if s.ProviderID == slot.ProviderID && s.Date == slot.Date && s.StartTime == slot.StartTime {
			return ErrSlotExists
		}
	}
	r.nextID++
	slot.ID = fmt.Sprintf("slot-%d", r.nextID)
	r.slots[slot.ID] = slot
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Slot, error) {
	s, ok := r.slots[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *fakeRepo) ListForProviderRange(ctx context.Context, providerID, dateFrom, dateTo string) ([]*Slot, error) {
	var out []*Slot
	for _, s := range r.slots {
		if s.ProviderID == providerID && s.Date >= dateFrom && s.Date <= dateTo {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) SetAvailability(ctx context.Context, id string, available bool) error {
	s, ok := r.slots[id]
	if !ok {
		return ErrNotFound
	}
	s.IsAvailable = available
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.slots[id]; !ok {
		return ErrNotFound
	}
	delete(r.slots, id)
	return nil
}

type fakeUserService struct {
	users map[string]*user.User
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}
func (f *fakeUserService) Register(ctx context.Context, req user.RegisterRequest) (*user.User, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeUserService) Login(ctx context.Context, email, password string) (*user.User, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeUserService) GetByRegistration(ctx context.Context, registration string) (*user.User, error) {
	return nil, user.ErrNotFound
}
func (f *fakeUserService) List(ctx context.Context, filter user.Filter) ([]*user.User, int, error) {
	return nil, 0, nil
}
func (f *fakeUserService) ListProviders(ctx context.Context, providerRole string, page, pageSize int) ([]*user.User, int, error) {
	return nil, 0, nil
}
func (f *fakeUserService) UpdateProfile(ctx context.Context, id string, req user.UpdateProfileRequest) (*user.User, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeUserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	return errors.New("not implemented")
}
func (f *fakeUserService) Deactivate(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

func newTestService(t *testing.T) (Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	users := &fakeUserService{users: map[string]*user.User{
		"expert-1":  {ID: "expert-1", Email: "e1@campus.edu", Role: user.RoleExpert, IsActive: true},
		"peer-1":    {ID: "peer-1", Email: "p1@campus.edu", Role: user.RolePeer, IsActive: true},
		"student-1": {ID: "student-1", Email: "s1@campus.edu", Role: user.RoleStudent, IsActive: true},
	}}
	return NewService(repo, users), repo
}

func TestPublishSlotsDefaultGrid(t *testing.T) {
	svc, _ := newTestService(t)

	slots, err := svc.PublishSlots(context.Background(), "expert-1", "2026-03-02", nil)
	require.NoError(t, err)
	require.Len(t, slots, len(DefaultSlots))

	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "09:50", slots[0].EndTime)
	assert.Equal(t, "15:00", slots[len(slots)-1].StartTime)
	for _, s := range slots {
		assert.True(t, s.IsAvailable)
		assert.Equal(t, "expert", s.ProviderType)
	}
}

func TestPublishSlotsRejectsNonProvider(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.PublishSlots(context.Background(), "student-1", "2026-03-02", nil)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestPublishSlotsValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.PublishSlots(ctx, "expert-1", "03/02/2026", nil)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.PublishSlots(ctx, "expert-1", "2026-03-02", []SlotInput{{StartTime: "10:00", EndTime: "25:00"}})
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = svc.PublishSlots(ctx, "expert-1", "2026-03-02", []SlotInput{{StartTime: "10:00", EndTime: "09:00"}})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestPublishSlotsSkipsExistingWindows(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.PublishSlots(ctx, "expert-1", "2026-03-02", nil)
	require.NoError(t, err)

	// Re-publishing the same date creates nothing new.
	again, err := svc.PublishSlots(ctx, "expert-1", "2026-03-02", nil)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Len(t, repo.slots, len(DefaultSlots))
}

func TestMonthScheduleBounds(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	seed := func(date string) {
		require.NoError(t, repo.Create(ctx, &Slot{
			ProviderID: "expert-1", Date: date, StartTime: "10:00", EndTime: "10:50", IsAvailable: true,
		}))
	}
	seed("2026-02-28") // previous month
	seed("2026-03-01") // first day
	seed("2026-03-15")
	seed("2026-03-31") // last day
	seed("2026-04-01") // next month

	schedule, err := svc.MonthSchedule(ctx, "expert-1", "2026-03-15")
	require.NoError(t, err)

	assert.Len(t, schedule, 3)
	assert.Contains(t, schedule, "2026-03-01")
	assert.Contains(t, schedule, "2026-03-15")
	assert.Contains(t, schedule, "2026-03-31")
	assert.NotContains(t, schedule, "2026-02-28")
	assert.NotContains(t, schedule, "2026-04-01")
}

func TestSlotIsOpen(t *testing.T) {
	open := &Slot{IsAvailable: true}
	assert.True(t, open.IsOpen())

	closed := &Slot{IsAvailable: false}
	assert.False(t, closed.IsOpen())

	booked := &Slot{IsAvailable: true, BookedByID: "student-1", BookedByName: "Sam"}
	assert.False(t, booked.IsOpen())
}

func TestSetAvailabilityPermissions(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &Slot{
		ProviderID: "expert-1", Date: "2026-03-02", StartTime: "10:00", EndTime: "10:50", IsAvailable: true,
	}))

	_, err := svc.SetAvailability(ctx, "slot-1", false, "peer-1", false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	slot, err := svc.SetAvailability(ctx, "slot-1", false, "expert-1", false)
	require.NoError(t, err)
	assert.False(t, slot.IsAvailable)

	// Admin can reopen it.
	slot, err = svc.SetAvailability(ctx, "slot-1", true, "someone", true)
	require.NoError(t, err)
	assert.True(t, slot.IsAvailable)
}

func TestDeleteSlot(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &Slot{
		ProviderID: "peer-1", Date: "2026-03-02", StartTime: "10:00", EndTime: "10:50",
	}))

	assert.ErrorIs(t, svc.Delete(ctx, "slot-1", "expert-1", false), ErrPermissionDenied)
	assert.NoError(t, svc.Delete(ctx, "slot-1", "peer-1", false))
	assert.ErrorIs(t, svc.Delete(ctx, "slot-1", "peer-1", false), ErrNotFound)
}
