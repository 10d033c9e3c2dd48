// Package store provides the sqlite persistence layer. A single SQLiteStore
// implements the user, session, and result repositories.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"cpr-quiz/internal/auth"
	"cpr-quiz/internal/quiz"
	"cpr-quiz/internal/store/migrations"
)

type SQLiteStore struct {
	db *sql.DB
}

func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "cpr-quiz.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *SQLiteStore) CreateUser(ctx context.Context, username, passwordHash string) (*auth.User, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO users (username, password_hash, created_at_unix) VALUES (?, ?, ?)`,
		username,
		passwordHash,
		now.Unix(),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, auth.ErrUsernameTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &auth.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	user := &auth.User{}
	var createdAtUnix int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash, created_at_unix FROM users WHERE username = ?`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &createdAtUnix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
	return user, nil
}

func (s *SQLiteStore) RecordResult(ctx context.Context, result quiz.Result) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO results (id, username, score, quiz_date) VALUES (?, ?, ?, ?)`,
		result.ID,
		result.Username,
		result.Score,
		result.QuizDate.Format(quiz.DateLayout),
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// HistoryByUsername returns the user's results newest date first; several
// results on the same date come back newest insert first.
func (s *SQLiteStore) HistoryByUsername(ctx context.Context, username string) ([]quiz.Result, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, username, score, quiz_date
		 FROM results
		 WHERE username = ?
		 ORDER BY quiz_date DESC, rowid DESC`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	history := make([]quiz.Result, 0)
	for rows.Next() {
		var (
			result  quiz.Result
			rawDate string
		)
		if err := rows.Scan(&result.ID, &result.Username, &result.Score, &rawDate); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		quizDate, err := time.Parse(quiz.DateLayout, rawDate)
		if err != nil {
			return nil, fmt.Errorf("bad quiz_date %q: %w", rawDate, err)
		}
		result.QuizDate = quizDate
		history = append(history, result)
	}

	return history, rows.Err()
}

func (s *SQLiteStore) CreateSession(ctx context.Context, session auth.Session) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (id, username, created_at_unix, expires_at_unix) VALUES (?, ?, ?, ?)`,
		session.ID,
		session.Username,
		session.CreatedAt.Unix(),
		session.ExpiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*auth.Session, error) {
	session := &auth.Session{}
	var createdAtUnix, expiresAtUnix int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, username, created_at_unix, expires_at_unix FROM sessions WHERE id = ?`,
		id,
	).Scan(&session.ID, &session.Username, &createdAtUnix, &expiresAtUnix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNoSession
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	session.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
	session.ExpiresAt = time.Unix(expiresAtUnix, 0).UTC()
	return session, nil
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
