package quiz

import (
	"context"
	"errors"
	"time"
)

var (
	ErrBankTooSmall = errors.New("question bank is smaller than a daily quiz")
)

// Result is one persisted record of a completed quiz attempt. A user may
// hold any number of results, including several for the same date.
type Result struct {
	ID       string
	Username string
	Score    int
	QuizDate time.Time
}

type ResultRepository interface {
	RecordResult(ctx context.Context, result Result) error
	HistoryByUsername(ctx context.Context, username string) ([]Result, error)
}
