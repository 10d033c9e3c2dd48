package quiz

import (
	"math/rand"
	"time"
)

// DailyQuestionCount is the fixed size of a daily quiz.
const DailyQuestionCount = 10

// DateLayout is the calendar-date format used for quiz dates everywhere:
// in results rows, in seeds, and on the wire.
const DateLayout = "2006-01-02"

// SeedForDate derives the selector seed from a calendar date as the integer
// YYYYMMDD, so 2024-03-09 seeds as 20240309.
func SeedForDate(date time.Time) int64 {
	year, month, day := date.Date()
	return int64(year)*10000 + int64(month)*100 + int64(day)
}

// SelectDaily returns the day's questions: a deterministic sample of
// DailyQuestionCount distinct questions drawn without replacement from the
// bank.
//
// The sample is the first DailyQuestionCount indices of rand.Perm over the
// bank, using a generator seeded with SeedForDate. For a fixed bank the same
// date always yields the same questions in the same order; different dates
// generally yield different subsets. Exact parity with any other generator is
// not a goal, only same-seed-same-output determinism.
func (b *Bank) SelectDaily(date time.Time) ([]Question, error) {
	if len(b.questions) < DailyQuestionCount {
		return nil, ErrBankTooSmall
	}

	rng := rand.New(rand.NewSource(SeedForDate(date)))
	perm := rng.Perm(len(b.questions))

	selected := make([]Question, 0, DailyQuestionCount)
	for _, idx := range perm[:DailyQuestionCount] {
		selected = append(selected, b.questions[idx])
	}
	return selected, nil
}
