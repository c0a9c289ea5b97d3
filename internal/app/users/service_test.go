package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showlog/internal/conn"
	"showlog/internal/store"
	"showlog/shared/go/models"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func connectedManager(t *testing.T) *conn.Manager {
	t.Helper()
	m := conn.NewManager(1, time.Millisecond)
	require.NoError(t, m.Reconnect(context.Background(), pingerFunc(func(context.Context) error { return nil })))
	return m
}

type stubStore struct {
	users map[int64]*models.User

	restored    []int64
	restoredAs  string
	updateErr   error
	updatedName string
}

func (s *stubStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}

func (s *stubStore) RestoreUser(ctx context.Context, id int64, email, displayName string) error {
	s.restored = append(s.restored, id)
	s.restoredAs = displayName
	if s.users == nil {
		s.users = map[int64]*models.User{}
	}
	s.users[id] = &models.User{ID: id, Email: email, DisplayName: displayName}
	return nil
}

func (s *stubStore) UpdateProfile(ctx context.Context, id int64, displayName, bio, pictureURL string) error {
	s.updatedName = displayName
	return s.updateErr
}

func TestProfileReturnsExistingUser(t *testing.T) {
	st := &stubStore{users: map[int64]*models.User{
		42: {ID: 42, Email: "ana@example.com", DisplayName: "ana"},
	}}
	svc := New(st, connectedManager(t))

	user, err := svc.Profile(context.Background(), 42, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ana", user.DisplayName)
	assert.Empty(t, st.restored)
}

func TestProfileRecreatesMissingRowFromToken(t *testing.T) {
	st := &stubStore{}
	svc := New(st, connectedManager(t))

	user, err := svc.Profile(context.Background(), 42, "ana@example.com")
	require.NoError(t, err)
	assert.EqualValues(t, 42, user.ID)
	assert.Equal(t, []int64{42}, st.restored)
	assert.Equal(t, "ana", st.restoredAs, "display name comes from the email local-part")
}

func TestProfileWithoutEmailStaysMissing(t *testing.T) {
	st := &stubStore{}
	svc := New(st, connectedManager(t))

	_, err := svc.Profile(context.Background(), 42, "")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.Empty(t, st.restored)
}

func TestUpdateRequiresMatchingIdentity(t *testing.T) {
	st := &stubStore{}
	svc := New(st, connectedManager(t))

	err := svc.Update(context.Background(), 42, 43, "name", "", "")
	assert.ErrorIs(t, err, ErrIdentityMismatch)
	assert.Empty(t, st.updatedName)

	require.NoError(t, svc.Update(context.Background(), 42, 42, "new name", "", ""))
	assert.Equal(t, "new name", st.updatedName)
}
