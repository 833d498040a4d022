package message

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varun4522/calm-campus-backend/internal/user"
)

type fakeRepo struct {
	messages []*Message
	nextID   int
}

func (r *fakeRepo) Create(ctx context.Context, m *Message) error {
	r.nextID++
	m.ID = fmt.Sprintf("msg-%d", r.nextID)
	// Strictly increasing timestamps so ordering assertions are stable.
	m.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(r.nextID) * time.Minute)
	r.messages = append(r.messages, m)
	return nil
}

func (r *fakeRepo) ListConversation(ctx context.Context, userID, peerID string, filter Filter) ([]*Message, int, error) {
	var out []*Message
	for _, m := range r.messages {
		if (m.SenderID == userID && m.RecipientID == peerID) ||
			(m.SenderID == peerID && m.RecipientID == userID) {
			out = append(out, m)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) ListInbox(ctx context.Context, userID string) ([]*Conversation, error) {
	byPeer := map[string]*Conversation{}
	for _, m := range r.messages {
		var peerID, peerName string
		switch userID {
		case m.SenderID:
			peerID = m.RecipientID
		case m.RecipientID:
			peerID, peerName = m.SenderID, m.SenderName
		default:
			continue
		}

		c, ok := byPeer[peerID]
		if !ok {
			c = &Conversation{PeerID: peerID}
			byPeer[peerID] = c
		}
		c.PeerName = peerName
		c.LastMessage = m.Body
		c.LastAt = m.CreatedAt
		if m.RecipientID == userID && !m.Read {
			c.UnreadCount++
		}
	}

	var out []*Conversation
	for _, c := range byPeer {
		out = append(out, c)
	}
	// Same contract as the SQL implementation: newest thread first.
	sort.Slice(out, func(i, j int) bool { return out[i].LastAt.After(out[j].LastAt) })
	return out, nil
}

func (r *fakeRepo) MarkRead(ctx context.Context, userID, peerID string) (int, error) {
	updated := 0
	for _, m := range r.messages {
		if m.SenderID == peerID && m.RecipientID == userID && !m.Read {
			m.Read = true
			updated++
		}
	}
	return updated, nil
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

func newTestService() Service {
	users := &fakeUserService{users: map[string]*user.User{
		"student-1": {ID: "student-1", Email: "s1@campus.edu", DisplayName: strPtr("Sam")},
		"peer-1":    {ID: "peer-1", Email: "p1@campus.edu", DisplayName: strPtr("Pat")},
		"peer-2":    {ID: "peer-2", Email: "p2@campus.edu", DisplayName: strPtr("Robin")},
	}}
	return NewService(&fakeRepo{}, users)
}

func TestSendValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Send(ctx, SendRequest{SenderID: "student-1", RecipientID: "peer-1", Body: "  "})
	assert.ErrorIs(t, err, ErrEmptyBody)

	_, err = svc.Send(ctx, SendRequest{SenderID: "student-1", Body: "hi"})
	assert.ErrorIs(t, err, ErrRecipientMissing)

	_, err = svc.Send(ctx, SendRequest{SenderID: "student-1", RecipientID: "student-1", Body: "hi"})
	assert.ErrorIs(t, err, ErrSelfMessage)

	_, err = svc.Send(ctx, SendRequest{SenderID: "student-1", RecipientID: "nobody", Body: "hi"})
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestSendStampsSenderName(t *testing.T) {
	svc := newTestService()

	m, err := svc.Send(context.Background(), SendRequest{
		SenderID: "student-1", RecipientID: "peer-1", Body: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sam", m.SenderName)
	assert.False(t, m.Read)
}

func TestInboxOrdersNewestThreadFirst(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Send(ctx, SendRequest{SenderID: "student-1", RecipientID: "peer-1", Body: "oldest thread"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, SendRequest{SenderID: "peer-2", RecipientID: "student-1", Body: "middle"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, SendRequest{SenderID: "peer-1", RecipientID: "student-1", Body: "latest"})
	require.NoError(t, err)

	inbox, err := svc.ListInbox(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, inbox, 2)

	// The thread with the most recent message comes first, regardless of
	// which conversation started earlier.
	assert.Equal(t, "peer-1", inbox[0].PeerID)
	assert.Equal(t, "latest", inbox[0].LastMessage)
	assert.Equal(t, "peer-2", inbox[1].PeerID)
	assert.True(t, inbox[0].LastAt.After(inbox[1].LastAt))
}

func TestInboxAndMarkRead(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Send(ctx, SendRequest{SenderID: "peer-1", RecipientID: "student-1", Body: "first"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, SendRequest{SenderID: "peer-1", RecipientID: "student-1", Body: "second"})
	require.NoError(t, err)

	inbox, err := svc.ListInbox(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "peer-1", inbox[0].PeerID)
	assert.Equal(t, "Pat", inbox[0].PeerName)
	assert.Equal(t, "second", inbox[0].LastMessage)
	assert.Equal(t, 2, inbox[0].UnreadCount)

	updated, err := svc.MarkRead(ctx, "student-1", "peer-1")
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	inbox, err = svc.ListInbox(ctx, "student-1")
	require.NoError(t, err)
	assert.Equal(t, 0, inbox[0].UnreadCount)
}
