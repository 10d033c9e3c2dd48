package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[string]*User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, username, passwordHash string) (*User, error) {
	if _, exists := f.users[username]; exists {
		return nil, ErrUsernameTaken
	}
	f.nextID++
	user := &User{
		ID:           f.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	f.users[username] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

type fakeSessionRepo struct {
	sessions map[string]Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]Session)}
}

func (f *fakeSessionRepo) CreateSession(_ context.Context, session Session) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) GetSession(_ context.Context, id string) (*Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return &session, nil
}

func (f *fakeSessionRepo) DeleteSession(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func newTestService() (*Service, *fakeUserRepo, *fakeSessionRepo) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	return NewService(users, sessions, "test-secret", time.Hour), users, sessions
}

func TestRegisterAndLogin(t *testing.T) {
	service, users, sessions := newTestService()
	ctx := context.Background()

	require.NoError(t, service.Register(ctx, "alice", "correct"))

	stored, err := users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "correct", stored.PasswordHash, "password must not be stored in the clear")

	token, err := service.Login(ctx, "alice", "correct")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Len(t, sessions.sessions, 1)

	session, err := service.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	service, users, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, service.Register(ctx, "alice", "first-password"))
	original, err := users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)

	err = service.Register(ctx, "alice", "second-password")
	require.ErrorIs(t, err, ErrUsernameTaken)

	// The first record must be untouched.
	after, err := users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, original.ID, after.ID)
	assert.Equal(t, original.PasswordHash, after.PasswordHash)
}

func TestRegisterRejectsBlankInput(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	require.ErrorIs(t, service.Register(ctx, "   ", "password"), ErrInvalidInput)
	require.ErrorIs(t, service.Register(ctx, "alice", ""), ErrInvalidInput)
}

func TestLoginWrongPassword(t *testing.T) {
	service, _, sessions := newTestService()
	ctx := context.Background()

	require.NoError(t, service.Register(ctx, "alice", "correct"))

	_, err := service.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, sessions.sessions, "failed login must not establish a session")
}

func TestLoginUnknownUser(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Login(context.Background(), "nobody", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateRejectsTamperedToken(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, service.Register(ctx, "alice", "correct"))
	token, err := service.Login(ctx, "alice", "correct")
	require.NoError(t, err)

	_, err = service.Authenticate(ctx, token+"tampered")
	require.ErrorIs(t, err, ErrNoSession)

	otherSecret := NewService(newFakeUserRepo(), newFakeSessionRepo(), "other-secret", time.Hour)
	_, err = otherSecret.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	// A real (short) TTL so the whole path runs against the wall clock,
	// token parsing included.
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	service := NewService(users, sessions, "test-secret", 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, service.Register(ctx, "alice", "correct"))
	token, err := service.Login(ctx, "alice", "correct")
	require.NoError(t, err)
	require.Len(t, sessions.sessions, 1)

	time.Sleep(120 * time.Millisecond)

	_, err = service.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, sessions.sessions, "expired session should be deleted on first touch")
}

func TestLogoutDestroysSession(t *testing.T) {
	service, _, sessions := newTestService()
	ctx := context.Background()

	require.NoError(t, service.Register(ctx, "alice", "correct"))
	token, err := service.Login(ctx, "alice", "correct")
	require.NoError(t, err)
	require.Len(t, sessions.sessions, 1)

	require.NoError(t, service.Logout(ctx, token))
	assert.Empty(t, sessions.sessions)

	_, err = service.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrNoSession)

	// Logout is idempotent and tolerates garbage tokens.
	require.NoError(t, service.Logout(ctx, token))
	require.NoError(t, service.Logout(ctx, "not-a-token"))
}
