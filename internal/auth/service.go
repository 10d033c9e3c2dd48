package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const DefaultSessionTTL = 24 * time.Hour

type Service struct {
	users      UserRepository
	sessions   SessionRepository
	secret     []byte
	sessionTTL time.Duration
	now        func() time.Time
}

func NewService(users UserRepository, sessions SessionRepository, secret string, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &Service{
		users:      users,
		sessions:   sessions,
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Register creates a user with a bcrypt-hashed password. The username
// pre-check and the insert are two separate statements; concurrent
// registrations of the same name can race, which is accepted for this scope.
func (s *Service) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrInvalidInput
	}

	_, err := s.users.GetUserByUsername(ctx, username)
	if err == nil {
		return ErrUsernameTaken
	}
	if !errors.Is(err, ErrUserNotFound) {
		return fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.users.CreateUser(ctx, username, string(hash)); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Login verifies the credentials and establishes a session. It returns the
// cookie token for the new session.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := Session{
		ID:        uuid.NewString(),
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	token, err := signSessionToken(session, s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a cookie token to its live session. Expired sessions
// are deleted on first touch and reported as ErrNoSession.
func (s *Service) Authenticate(ctx context.Context, token string) (*Session, error) {
	sessionID, err := parseSessionToken(token, s.secret)
	if err != nil {
		return nil, ErrNoSession
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("look up session: %w", err)
	}

	if !s.now().UTC().Before(session.ExpiresAt) {
		_ = s.sessions.DeleteSession(ctx, session.ID)
		return nil, ErrNoSession
	}
	return session, nil
}

// Logout destroys the session behind the token. An unparseable or already
// gone session is not an error; logout is idempotent.
func (s *Service) Logout(ctx context.Context, token string) error {
	sessionID, err := parseSessionToken(token, s.secret)
	if err != nil {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil && !errors.Is(err, ErrNoSession) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
