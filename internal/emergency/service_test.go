package emergency

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varun4522/calm-campus-backend/internal/user"
)

type fakeRepo struct {
	shares map[string]*LocationShare
	nextID int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{shares: map[string]*LocationShare{}}
}

func (r *fakeRepo) Create(ctx context.Context, ls *LocationShare) error {
	r.nextID++
	ls.ID = fmt.Sprintf("share-%d", r.nextID)
	ls.CreatedAt = time.Now()
	r.shares[ls.ID] = ls
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*LocationShare, error) {
	ls, ok := r.shares[id]
	if !ok {
		return nil, ErrNotFound
	}
	return ls, nil
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]*LocationShare, int, error) {
	var out []*LocationShare
	for _, ls := range r.shares {
		if filter.UserID != "" && ls.UserID != filter.UserID {
			continue
		}
		if !filter.Since.IsZero() && ls.CreatedAt.Before(filter.Since) {
			continue
		}
		out = append(out, ls)
	}
	return out, len(out), nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.shares[id]; !ok {
		return ErrNotFound
	}
	delete(r.shares, id)
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

func strPtr(s string) *string { return &s }

func newTestService() (Service, *fakeRepo) {
	repo := newFakeRepo()
	users := &fakeUserService{users: map[string]*user.User{
		"student-1": {ID: "student-1", Email: "s1@campus.edu", DisplayName: strPtr("Sam")},
	}}
	return NewService(repo, users), repo
}

func TestShareValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Share(ctx, ShareRequest{UserID: "student-1", Latitude: 91, Longitude: 0})
	assert.ErrorIs(t, err, ErrInvalidLatitude)

	_, err = svc.Share(ctx, ShareRequest{UserID: "student-1", Latitude: -91, Longitude: 0})
	assert.ErrorIs(t, err, ErrInvalidLatitude)

	_, err = svc.Share(ctx, ShareRequest{UserID: "student-1", Latitude: 0, Longitude: 181})
	assert.ErrorIs(t, err, ErrInvalidLongitude)

	_, err = svc.Share(ctx, ShareRequest{UserID: "nobody", Latitude: 0, Longitude: 0})
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestShare(t *testing.T) {
	svc, _ := newTestService()

	ls, err := svc.Share(context.Background(), ShareRequest{
		UserID:    "student-1",
		Latitude:  12.9716,
		Longitude: 77.5946,
		Address:   "Main library entrance",
		Note:      "Feeling unsafe",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sam", ls.UserName)
	assert.NotEmpty(t, ls.ID)
}

func TestListRecentDefaultsTo24Hours(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	fresh := &LocationShare{UserID: "student-1", Latitude: 1, Longitude: 1}
	require.NoError(t, repo.Create(ctx, fresh))

	stale := &LocationShare{UserID: "student-1", Latitude: 2, Longitude: 2}
	require.NoError(t, repo.Create(ctx, stale))
	stale.CreatedAt = time.Now().Add(-48 * time.Hour)

	shares, total, err := svc.ListRecent(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, fresh.ID, shares[0].ID)
}

func TestDeleteShare(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	ls := &LocationShare{UserID: "student-1", Latitude: 1, Longitude: 1}
	require.NoError(t, repo.Create(ctx, ls))

	assert.ErrorIs(t, svc.Delete(ctx, ls.ID, "someone-else", false), ErrPermissionDenied)
	assert.NoError(t, svc.Delete(ctx, ls.ID, "student-1", false))
}
