package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varun4522/calm-campus-backend/internal/events"
	"github.com/varun4522/calm-campus-backend/internal/user"
)

// ==== Fakes ====

type fakeRepo struct {
	sessions map[string]*SessionRequest

	activeByRequester map[string]*SessionRequest
	activeBySlot      map[string]*SessionRequest

	requesterCheckErr error
	slotCheckErr      error
	createErr         error

	created []*SessionRequest
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sessions:          map[string]*SessionRequest{},
		activeByRequester: map[string]*SessionRequest{},
		activeBySlot:      map[string]*SessionRequest{},
	}
}

func slotKey(providerID, date, slotTime string) string {
	return providerID + "|" + date + "|" + slotTime
}

func (r *fakeRepo) Create(ctx context.Context, sr *SessionRequest) error {
	if r.createErr != nil {
		return r.createErr
	}
	sr.ID = "session-" + sr.RequesterID
	sr.CreatedAt = time.Now()
	r.sessions[sr.ID] = sr
	r.created = append(r.created, sr)
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*SessionRequest, error) {
	sr, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sr, nil
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]*SessionRequest, int, error) {
	var out []*SessionRequest
	for _, sr := range r.sessions {
		out = append(out, sr)
	}
	return out, len(out), nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	sr, ok := r.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sr.Status = status
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *fakeRepo) FindActiveByRequester(ctx context.Context, requesterID string) (*SessionRequest, error) {
	if r.requesterCheckErr != nil {
		return nil, r.requesterCheckErr
	}
	if sr, ok := r.activeByRequester[requesterID]; ok {
		return sr, nil
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) FindActiveBySlot(ctx context.Context, providerID, date, slotTime string) (*SessionRequest, error) {
	if r.slotCheckErr != nil {
		return nil, r.slotCheckErr
	}
	if sr, ok := r.activeBySlot[slotKey(providerID, date, slotTime)]; ok {
		return sr, nil
	}
	return nil, ErrNotFound
}

type fakeUserService struct {
	users map[string]*user.User
}

func (f *fakeUserService) Register(ctx context.Context, req user.RegisterRequest) (*user.User, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeUserService) Login(ctx context.Context, email, password string) (*user.User, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeUserService) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
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

type recordingCache struct {
	taken       map[string]bool
	invalidated []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{taken: map[string]bool{}}
}

func (c *recordingCache) Lookup(ctx context.Context, providerID, date, slotTime string) (bool, bool) {
	taken, known := c.taken[slotKey(providerID, date, slotTime)]
	return taken, known
}

func (c *recordingCache) MarkTaken(ctx context.Context, providerID, date, slotTime string) {
	c.taken[slotKey(providerID, date, slotTime)] = true
}

func (c *recordingCache) Invalidate(ctx context.Context, providerID, date, slotTime string) {
	delete(c.taken, slotKey(providerID, date, slotTime))
	c.invalidated = append(c.invalidated, slotKey(providerID, date, slotTime))
}

type recordingPublisher struct {
	requested     []events.SessionRequestedEvent
	statusChanged []events.SessionStatusChangedEvent
}

func (p *recordingPublisher) SessionRequested(ctx context.Context, evt events.SessionRequestedEvent) error {
	p.requested = append(p.requested, evt)
	return nil
}

func (p *recordingPublisher) SessionStatusChanged(ctx context.Context, evt events.SessionStatusChangedEvent) error {
	p.statusChanged = append(p.statusChanged, evt)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// ==== Helpers ====

func strPtr(s string) *string { return &s }

func testUsers() map[string]*user.User {
	return map[string]*user.User{
		"student-1": {
			ID: "student-1", Email: "s1@campus.edu", DisplayName: strPtr("Sam Student"),
			RegistrationNumber: "REG001", Role: user.RoleStudent, IsActive: true,
		},
		"student-2": {
			ID: "student-2", Email: "s2@campus.edu", DisplayName: strPtr("Toni Student"),
			RegistrationNumber: "REG002", Role: user.RoleStudent, IsActive: true,
		},
		"expert-1": {
			ID: "expert-1", Email: "e1@campus.edu", DisplayName: strPtr("Dr. Expert"),
			RegistrationNumber: "EXP001", Role: user.RoleExpert, IsActive: true,
		},
		"peer-1": {
			ID: "peer-1", Email: "p1@campus.edu", DisplayName: strPtr("Pat Peer"),
			RegistrationNumber: "PEER01", Role: user.RolePeer, IsActive: true,
		},
		"inactive-expert": {
			ID: "inactive-expert", Email: "gone@campus.edu",
			RegistrationNumber: "EXP999", Role: user.RoleExpert, IsActive: false,
		},
	}
}

type testEnv struct {
	repo      *fakeRepo
	cache     *recordingCache
	publisher *recordingPublisher
	svc       Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newFakeRepo()
	cache := newRecordingCache()
	publisher := &recordingPublisher{}
	svc := NewService(repo, &fakeUserService{users: testUsers()}, cache, publisher)

	// Pin the clock so "tomorrow" in test data is stable.
	svc.(*service).now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}

	return &testEnv{repo: repo, cache: cache, publisher: publisher, svc: svc}
}

func validRequest() CreateRequest {
	return CreateRequest{
		RequesterID: "student-1",
		ProviderID:  "expert-1",
		Date:        "2026-03-02",
		Time:        "10:00",
	}
}

// ==== Create: validation ====

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(*CreateRequest)
		wantErr error
	}{
		{"missing requester", func(r *CreateRequest) { r.RequesterID = "" }, ErrRequesterMissing},
		{"missing provider", func(r *CreateRequest) { r.ProviderID = " " }, ErrProviderMissing},
		{"bad date", func(r *CreateRequest) { r.Date = "02-03-2026" }, ErrInvalidDate},
		{"bad time", func(r *CreateRequest) { r.Time = "25:99" }, ErrInvalidTime},
		{"bad mode", func(r *CreateRequest) { r.Mode = "in-person" }, ErrInvalidMode},
		{"past session", func(r *CreateRequest) { r.Date = "2026-02-28" }, ErrSessionInPast},
		{"unknown provider", func(r *CreateRequest) { r.ProviderID = "nobody" }, ErrProviderNotFound},
		{"provider is a student", func(r *CreateRequest) { r.ProviderID = "student-2" }, ErrProviderNotFound},
		{"provider deactivated", func(r *CreateRequest) { r.ProviderID = "inactive-expert" }, ErrProviderNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			req := validRequest()
			tc.mutate(&req)

			_, err := env.svc.Create(ctx, req)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, env.repo.created, "nothing should be inserted")
		})
	}
}

func TestCreateAcceptsSecondsInTime(t *testing.T) {
	env := newTestEnv(t)
	req := validRequest()
	req.Time = "10:00:00"

	sr, err := env.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "10:00", sr.Time, "time should be normalized to HH:MM")
}

func TestCreateDefaults(t *testing.T) {
	env := newTestEnv(t)

	sr, err := env.svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, StatusPending, sr.Status)
	assert.Equal(t, ModeOnline, sr.Mode)
	assert.Equal(t, "Sam Student", sr.RequesterName)
	assert.Equal(t, "Dr. Expert", sr.ProviderName)
	assert.Equal(t, "expert", sr.ProviderType)
	assert.Equal(t, "REG001", sr.RequesterRegistration)
}

// ==== Create: conflict policy ====

func TestCreateRejectsSecondActiveSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.repo.activeByRequester["student-1"] = &SessionRequest{
		RequesterID:  "student-1",
		ProviderID:   "peer-1",
		ProviderName: "Pat Peer",
		Date:         "2026-03-05",
		Time:         "14:00",
		Status:       StatusConfirmed,
	}

	_, err := env.svc.Create(ctx, validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrActiveSessionExists)

	// The rejection names the colliding booking so the client can show it.
	assert.Contains(t, err.Error(), "Pat Peer")
	assert.Contains(t, err.Error(), "2026-03-05")
	assert.Contains(t, err.Error(), "14:00")
	assert.Contains(t, err.Error(), "confirmed")

	assert.Empty(t, env.repo.created)
}

func TestCreateRejectsTakenSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.repo.activeBySlot[slotKey("expert-1", "2026-03-02", "10:00")] = &SessionRequest{
		RequesterID: "student-2",
		ProviderID:  "expert-1",
		Date:        "2026-03-02",
		Time:        "10:00",
		Status:      StatusPending,
	}

	_, err := env.svc.Create(ctx, validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Contains(t, err.Error(), "Dr. Expert")
	assert.Empty(t, env.repo.created)

	// The taken answer is cached for subsequent lookups.
	taken, known := env.cache.Lookup(ctx, "expert-1", "2026-03-02", "10:00")
	assert.True(t, known)
	assert.True(t, taken)
}

func TestCreateUsesCachedSlotAnswer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.cache.MarkTaken(ctx, "expert-1", "2026-03-02", "10:00")
	// Poison the DB check: if the cache is consulted first, this is never hit.
	env.repo.slotCheckErr = errors.New("db should not be queried")

	_, err := env.svc.Create(ctx, validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestCreateStaleCachedFreeAnswerStillChecksDatabase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A stale cache entry claims the slot is free while the database
	// holds an active booking. Only a cached "taken" is authoritative,
	// so the database must still be consulted and reject the booking.
	env.cache.taken[slotKey("expert-1", "2026-03-02", "10:00")] = false
	env.repo.activeBySlot[slotKey("expert-1", "2026-03-02", "10:00")] = &SessionRequest{
		RequesterID: "student-2",
		ProviderID:  "expert-1",
		Date:        "2026-03-02",
		Time:        "10:00",
		Status:      StatusConfirmed,
	}

	_, err := env.svc.Create(ctx, validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Empty(t, env.repo.created)
}

func TestCreateSameTimeDifferentProvidersBothSucceed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	second := CreateRequest{
		RequesterID: "student-2",
		ProviderID:  "peer-1",
		Date:        first.Date,
		Time:        first.Time,
	}
	_, err = env.svc.Create(ctx, second)
	require.NoError(t, err, "same time with a different provider is not a collision")
}

// ==== Create: fail-closed checks ====

func TestCreateFailsClosedOnConflictCheckError(t *testing.T) {
	env := newTestEnv(t)
	env.repo.requesterCheckErr = errors.New("connection refused")

	_, err := env.svc.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrConflictCheckUnavailable)
	assert.Empty(t, env.repo.created, "an unknown conflict state must not insert")
}

func TestCreateFailsClosedOnSlotCheckError(t *testing.T) {
	env := newTestEnv(t)
	env.repo.slotCheckErr = errors.New("connection refused")

	_, err := env.svc.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrConflictCheckUnavailable)
	assert.Empty(t, env.repo.created)
}

// ==== Create: insert race ====

func TestCreateMapsInsertRaceToSlotTaken(t *testing.T) {
	// Pre-flight checks pass but the insert loses the race and the unique
	// index fires. The caller sees the same conflict error as a pre-flight
	// rejection.
	env := newTestEnv(t)
	env.repo.createErr = ErrSlotTaken

	_, err := env.svc.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Contains(t, err.Error(), "Dr. Expert")
}

// ==== Create: side effects ====

func TestCreateMarksCacheAndPublishes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sr, err := env.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	taken, known := env.cache.Lookup(ctx, "expert-1", "2026-03-02", "10:00")
	assert.True(t, known && taken, "booked slot should be cached as taken")

	require.Len(t, env.publisher.requested, 1)
	evt := env.publisher.requested[0]
	assert.Equal(t, sr.ID, evt.SessionID)
	assert.Equal(t, "student-1", evt.RequesterID)
	assert.Equal(t, "expert-1", evt.ProviderID)
}

func TestCreateWorksWithoutPublisher(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeUserService{users: testUsers()}, nil, nil)
	svc.(*service).now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}

	_, err := svc.Create(context.Background(), validRequest())
	assert.NoError(t, err)
}

// ==== UpdateStatus ====

func TestUpdateStatusTransitions(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		from Status
		to   Status
		ok   bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to rejected", StatusPending, StatusRejected, true},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, true},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"confirmed to rejected", StatusConfirmed, StatusRejected, false},
		{"rejected to confirmed", StatusRejected, StatusConfirmed, false},
		{"completed to pending", StatusCompleted, StatusPending, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.repo.sessions["sr-1"] = &SessionRequest{
				ID: "sr-1", RequesterID: "student-1", ProviderID: "expert-1",
				Date: "2026-03-02", Time: "10:00", Status: tc.from,
			}

			_, err := env.svc.UpdateStatus(ctx, "sr-1", tc.to, "expert-1", false)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestUpdateStatusPermissions(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv(t)
	env.repo.sessions["sr-1"] = &SessionRequest{
		ID: "sr-1", RequesterID: "student-1", ProviderID: "expert-1",
		Date: "2026-03-02", Time: "10:00", Status: StatusPending,
	}

	// The requester cannot approve their own booking.
	_, err := env.svc.UpdateStatus(ctx, "sr-1", StatusConfirmed, "student-1", false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// A stranger cannot either.
	_, err = env.svc.UpdateStatus(ctx, "sr-1", StatusConfirmed, "peer-1", false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Admins can.
	_, err = env.svc.UpdateStatus(ctx, "sr-1", StatusConfirmed, "someone-else", true)
	assert.NoError(t, err)
}

func TestCompletingFreesTheSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sr, err := env.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	_, err = env.svc.UpdateStatus(ctx, sr.ID, StatusConfirmed, "expert-1", false)
	require.NoError(t, err)
	assert.Empty(t, env.cache.invalidated, "confirming keeps the slot held")

	_, err = env.svc.UpdateStatus(ctx, sr.ID, StatusCompleted, "expert-1", false)
	require.NoError(t, err)
	assert.Contains(t, env.cache.invalidated, slotKey("expert-1", "2026-03-02", "10:00"))

	// The requester can book again once their session completed.
	delete(env.repo.activeByRequester, "student-1")
	again := validRequest()
	again.Time = "11:00"
	_, err = env.svc.Create(ctx, again)
	assert.NoError(t, err)
}

func TestRejectionPublishesStatusChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sr, err := env.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	_, err = env.svc.UpdateStatus(ctx, sr.ID, StatusRejected, "expert-1", false)
	require.NoError(t, err)

	require.Len(t, env.publisher.statusChanged, 1)
	evt := env.publisher.statusChanged[0]
	assert.Equal(t, "pending", evt.OldStatus)
	assert.Equal(t, "rejected", evt.NewStatus)
}

// ==== Delete ====

func TestDeleteFreesSlotImmediately(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sr, err := env.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, sr.ID, "student-1", false))
	assert.Contains(t, env.cache.invalidated, slotKey("expert-1", "2026-03-02", "10:00"))

	_, err = env.svc.GetByID(ctx, sr.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.repo.sessions["sr-1"] = &SessionRequest{
		ID: "sr-1", RequesterID: "student-1", ProviderID: "expert-1",
		Date: "2026-03-02", Time: "10:00", Status: StatusPending,
	}

	assert.ErrorIs(t, env.svc.Delete(ctx, "sr-1", "student-2", false), ErrPermissionDenied)
	assert.NoError(t, env.svc.Delete(ctx, "sr-1", "expert-1", false))
}
