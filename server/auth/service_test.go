package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akuaasantewaa/fitta/internal/errors"
	"github.com/akuaasantewaa/fitta/store"
)

// fakeStore is an in-memory Store for service tests.
type fakeStore struct {
	users    map[int32]*store.User
	sessions map[string]*store.UserSession
	nextID   int32

	failReads bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[int32]*store.User{},
		sessions: map[string]*store.UserSession{},
	}
}

func (f *fakeStore) CreateUser(_ context.Context, create *store.User) (*store.User, error) {
	f.nextID++
	user := *create
	user.ID = f.nextID
	user.CreatedTs = time.Now().Unix()
	user.RowStatus = store.Normal
	f.users[user.ID] = &user
	return &user, nil
}

func (f *fakeStore) GetUser(_ context.Context, find *store.FindUser) (*store.User, error) {
	if f.failReads {
		return nil, assert.AnError
	}
	for _, user := range f.users {
		if find.ID != nil && user.ID != *find.ID {
			continue
		}
		if find.Email != nil && user.Email != *find.Email {
			continue
		}
		if find.Role != nil && user.Role != *find.Role {
			continue
		}
		return user, nil
	}
	return nil, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, update *store.UpdateUser) (*store.User, error) {
	user, ok := f.users[update.ID]
	if !ok {
		return nil, assert.AnError
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Profile != nil {
		user.Profile = *update.Profile
	}
	return user, nil
}

func (f *fakeStore) CreateUserSession(_ context.Context, create *store.UserSession) (*store.UserSession, error) {
	session := *create
	session.CreatedTs = time.Now().Unix()
	f.sessions[session.Token] = &session
	return &session, nil
}

func (f *fakeStore) GetUserSession(_ context.Context, find *store.FindUserSession) (*store.UserSession, error) {
	if f.failReads {
		return nil, assert.AnError
	}
	for _, session := range f.sessions {
		if find.Token != nil && session.Token != *find.Token {
			continue
		}
		if find.UserID != nil && session.UserID != *find.UserID {
			continue
		}
		return session, nil
	}
	return nil, nil
}

func (f *fakeStore) DeleteUserSession(_ context.Context, del *store.DeleteUserSession) (int64, error) {
	var deleted int64
	for token, session := range f.sessions {
		if del.Token != nil && session.Token != *del.Token {
			continue
		}
		if del.UserID != nil && session.UserID != *del.UserID {
			continue
		}
		if del.ExpiredBefore != nil && session.ExpiresTs >= *del.ExpiredBefore {
			continue
		}
		delete(f.sessions, token)
		deleted++
	}
	return deleted, nil
}

func registerOwner(t *testing.T, svc *Service) (Session, string) {
	t.Helper()
	session, token, err := svc.Register(context.Background(), Registration{
		Name:     "Ama Mensah",
		Email:    "ama@example.com",
		Phone:    "+233201234567",
		Password: "correct-horse",
	}, store.RoleVehicleOwner)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return session, token
}

func TestRegisterAndCheckAuthStatus(t *testing.T) {
	svc := NewService(newFakeStore())

	session, token := registerOwner(t, svc)
	assert.True(t, session.Authenticated)
	assert.NotEmpty(t, session.UID)
	assert.Equal(t, store.RoleVehicleOwner, session.Role)

	resolved, err := svc.CheckAuthStatus(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, resolved.Authenticated)
	assert.Equal(t, session.UID, resolved.UID)
	assert.Equal(t, session.Email, resolved.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeStore())
	registerOwner(t, svc)

	_, _, err := svc.Register(context.Background(), Registration{
		Name:     "Kofi Boateng",
		Email:    "ama@example.com",
		Phone:    "+233209876543",
		Password: "another-pass",
	}, store.RoleGaragePartner)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAlreadyExists))
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newFakeStore())

	tests := []struct {
		name string
		reg  Registration
	}{
		{"empty name", Registration{Name: "", Email: "a@b.co", Password: "longenough"}},
		{"bad email", Registration{Name: "Ama", Email: "not-an-email", Password: "longenough"}},
		{"short password", Registration{Name: "Ama", Email: "a@b.co", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tt.reg, store.RoleVehicleOwner)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeValidationFailed))
		})
	}
}

func TestLoginRejectionsShareMessage(t *testing.T) {
	svc := NewService(newFakeStore())
	registerOwner(t, svc)

	// Unknown email, wrong password, and role mismatch must all produce
	// the same rejection so callers cannot probe which accounts exist.
	tests := []struct {
		name  string
		creds Credentials
		role  store.Role
	}{
		{"unknown email", Credentials{Email: "nobody@example.com", Password: "correct-horse"}, store.RoleVehicleOwner},
		{"wrong password", Credentials{Email: "ama@example.com", Password: "wrong"}, store.RoleVehicleOwner},
		{"role mismatch", Credentials{Email: "ama@example.com", Password: "correct-horse"}, store.RoleInsurance},
	}
	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, token, err := svc.Login(context.Background(), tt.creds, tt.role)
			require.Error(t, err)
			assert.False(t, session.Authenticated)
			assert.Empty(t, token)
			assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthenticated))
			messages = append(messages, err.(*errors.AppError).Message)
		})
	}
	for _, msg := range messages {
		assert.Equal(t, messages[0], msg)
	}
}

func TestLoginSuccess(t *testing.T) {
	svc := NewService(newFakeStore())
	registerOwner(t, svc)

	session, token, err := svc.Login(context.Background(), Credentials{
		Email:    "ama@example.com",
		Password: "correct-horse",
	}, store.RoleVehicleOwner)
	require.NoError(t, err)
	assert.True(t, session.Authenticated)
	assert.NotEmpty(t, token)
	assert.Equal(t, store.RoleVehicleOwner, session.Role)
}

func TestCheckAuthStatusExpiredSession(t *testing.T) {
	st := newFakeStore()
	svc := NewService(st)
	_, token := registerOwner(t, svc)

	st.sessions[token].ExpiresTs = time.Now().Add(-time.Minute).Unix()

	session, err := svc.CheckAuthStatus(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, session.Authenticated)
	// The dead token is removed on sight.
	assert.NotContains(t, st.sessions, token)
}

func TestCheckAuthStatusStoreFault(t *testing.T) {
	st := newFakeStore()
	svc := NewService(st)
	_, token := registerOwner(t, svc)

	st.failReads = true
	session, err := svc.CheckAuthStatus(context.Background(), token)
	require.Error(t, err)
	assert.False(t, session.Authenticated)
}

func TestLogout(t *testing.T) {
	st := newFakeStore()
	svc := NewService(st)
	_, token := registerOwner(t, svc)

	require.NoError(t, svc.Logout(context.Background(), token))
	assert.Empty(t, st.sessions)

	session, err := svc.CheckAuthStatus(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, session.Authenticated)

	// Logging out a second time is a no-op, not an error.
	require.NoError(t, svc.Logout(context.Background(), token))
}

func TestUpdateProfile(t *testing.T) {
	svc := NewService(newFakeStore())
	_, token := registerOwner(t, svc)

	name := "Ama M."
	profile := `{"vehicle":"GR-1234-20"}`
	session, err := svc.UpdateProfile(context.Background(), token, ProfileUpdate{
		Name:    &name,
		Profile: &profile,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ama M.", session.Name)

	resolved, err := svc.CheckAuthStatus(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "Ama M.", resolved.Name)
}

func TestUpdateProfileRequiresIdentity(t *testing.T) {
	svc := NewService(newFakeStore())

	name := "Nobody"
	_, err := svc.UpdateProfile(context.Background(), "", ProfileUpdate{Name: &name})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthenticated))
}

func TestUpdateProfileRejectsInvalidJSON(t *testing.T) {
	svc := NewService(newFakeStore())
	_, token := registerOwner(t, svc)

	bad := `{not json`
	_, err := svc.UpdateProfile(context.Background(), token, ProfileUpdate{Profile: &bad})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidationFailed))
}

func TestCleanupJob(t *testing.T) {
	st := newFakeStore()
	svc := NewService(st)
	_, live := registerOwner(t, svc)

	expired := "expired-token"
	st.sessions[expired] = &store.UserSession{
		Token:     expired,
		UserID:    1,
		Role:      store.RoleVehicleOwner,
		ExpiresTs: time.Now().Add(-time.Hour).Unix(),
	}

	job := NewCleanupJob(st, time.Hour)
	deleted, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Contains(t, st.sessions, live)
	assert.NotContains(t, st.sessions, expired)
}
