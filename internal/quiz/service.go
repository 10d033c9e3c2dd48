package quiz

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReviewItem is the per-question outcome shown after a submission. Selected
// is nil when the question was left unanswered.
type ReviewItem struct {
	Question string  `json:"question"`
	Selected *string `json:"selected"`
	Correct  string  `json:"correct"`
}

type Submission struct {
	Score    int                   `json:"score"`
	QuizDate string                `json:"quiz_date"`
	Review   map[string]ReviewItem `json:"results"`
}

type Service struct {
	bank    *Bank
	results ResultRepository
}

func NewService(bank *Bank, results ResultRepository) *Service {
	return &Service{
		bank:    bank,
		results: results,
	}
}

// DailyQuestions returns the given date's question set with the correct
// answers stripped.
func (s *Service) DailyQuestions(date time.Time) ([]PublicQuestion, error) {
	questions, err := s.bank.SelectDaily(date)
	if err != nil {
		return nil, err
	}
	return ToPublicQuestions(questions), nil
}

// Submit grades answers against the date's question set, persists one result
// row, and returns the score with a per-question review.
//
// Every question of the day appears in the review. An absent or blank answer
// counts as incorrect with Selected left nil; answers for question ids
// outside the day's set are ignored. Resubmission on the same date is allowed
// and appends another result row.
func (s *Service) Submit(ctx context.Context, username string, date time.Time, answers map[string]string) (Submission, error) {
	questions, err := s.bank.SelectDaily(date)
	if err != nil {
		return Submission{}, err
	}

	score := 0
	review := make(map[string]ReviewItem, len(questions))
	for _, question := range questions {
		item := ReviewItem{
			Question: question.Question,
			Correct:  question.Answer,
		}

		if raw, ok := answers[question.QuestionID]; ok {
			if letter := normalizeLetter(raw); letter != "" {
				item.Selected = &letter
				if letter == question.Answer {
					score++
				}
			}
		}

		review[question.QuestionID] = item
	}

	result := Result{
		ID:       uuid.NewString(),
		Username: username,
		Score:    score,
		QuizDate: date,
	}
	if err := s.results.RecordResult(ctx, result); err != nil {
		return Submission{}, err
	}

	return Submission{
		Score:    score,
		QuizDate: date.Format(DateLayout),
		Review:   review,
	}, nil
}

// History returns the user's results sorted by quiz date descending.
func (s *Service) History(ctx context.Context, username string) ([]Result, error) {
	return s.results.HistoryByUsername(ctx, username)
}
