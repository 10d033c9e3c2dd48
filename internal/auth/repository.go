package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidInput       = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSession          = errors.New("no active session")
	ErrUserNotFound       = errors.New("user not found")
)

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is the server-side record behind a session cookie. The cookie
// token only names a session id; this row alone decides expiry, and deleting
// it revokes the session.
type Session struct {
	ID        string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type UserRepository interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) error
}
