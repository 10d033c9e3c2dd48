package httpapi

import (
	"context"
	"log/slog"
	"time"

	"cpr-quiz/internal/auth"
	"cpr-quiz/internal/quiz"
)

// Assistant is the outbound relay used by the /chat endpoint.
type Assistant interface {
	Ask(ctx context.Context, question string) (string, error)
}

type API struct {
	auth      *auth.Service
	quiz      *quiz.Service
	assistant Assistant
	log       *slog.Logger

	// now is injectable so handler tests can pin the quiz date.
	now func() time.Time
}

func NewAPI(authService *auth.Service, quizService *quiz.Service, assistant Assistant, log *slog.Logger) *API {
	if log == nil {
		log = slog.Default()
	}
	return &API{
		auth:      authService,
		quiz:      quizService,
		assistant: assistant,
		log:       log,
		now:       time.Now,
	}
}

// today is the calendar date all quiz operations in a request key on.
func (a *API) today() time.Time {
	return a.now().UTC()
}
