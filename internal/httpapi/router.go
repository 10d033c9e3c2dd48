package httpapi

import (
	"log/slog"
	"net/http"

	"cpr-quiz/internal/auth"
	"cpr-quiz/internal/quiz"
)

func NewRouter(authService *auth.Service, quizService *quiz.Service, assistant Assistant, log *slog.Logger) http.Handler {
	api := NewAPI(authService, quizService, assistant, log)
	return api.Routes()
}

func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", a.HandleHome)
	mux.HandleFunc("GET /register", a.HandleRegisterPage)
	mux.HandleFunc("POST /register", a.HandleRegister)
	mux.HandleFunc("GET /login", a.HandleLoginPage)
	mux.HandleFunc("POST /login", a.HandleLogin)
	mux.HandleFunc("GET /logout", a.HandleLogout)

	mux.HandleFunc("GET /quiz", a.requireSession("Please log in to access the quiz.", a.HandleQuiz))
	mux.HandleFunc("POST /quiz", a.requireSession("Please log in to access the quiz.", a.HandleQuizSubmit))
	mux.HandleFunc("GET /profile", a.requireSession("Please log in to view your profile.", a.HandleProfile))
	mux.HandleFunc("GET /results", a.requireSession("Please log in to view your results.", a.HandleResults))

	mux.HandleFunc("POST /chat", a.HandleChat)

	return withRequestLogging(a.log, mux)
}
