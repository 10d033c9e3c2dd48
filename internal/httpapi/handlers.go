package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"cpr-quiz/internal/assistant"
	"cpr-quiz/internal/auth"
	"cpr-quiz/internal/quiz"
)

func (a *API) HandleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, landingResponse{
		Service: "cpr-quiz",
		Message: "Daily CPR training quiz. Register at /register, then log in at /login.",
	})
}

func (a *API) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pageResponse{
		Page:   "register",
		Notice: r.URL.Query().Get("notice"),
	})
}

func (a *API) HandleRegister(w http.ResponseWriter, r *http.Request) {
	username, password, err := readCredentials(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	switch err := a.auth.Register(r.Context(), username, password); {
	case err == nil:
		redirectWithNotice(w, r, "/login", "Registration successful. Please log in.")
	case errors.Is(err, auth.ErrUsernameTaken):
		redirectWithNotice(w, r, "/register", "Username already exists.")
	case errors.Is(err, auth.ErrInvalidInput):
		redirectWithNotice(w, r, "/register", "Username and password are required.")
	default:
		a.log.Error("register failed", "error", err)
		writeServiceError(w, err)
	}
}

func (a *API) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pageResponse{
		Page:   "login",
		Notice: r.URL.Query().Get("notice"),
	})
}

func (a *API) HandleLogin(w http.ResponseWriter, r *http.Request) {
	username, password, err := readCredentials(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	token, err := a.auth.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			redirectWithNotice(w, r, "/login", "Invalid credentials.")
			return
		}
		a.log.Error("login failed", "error", err)
		writeServiceError(w, err)
		return
	}

	session, err := a.auth.Authenticate(r.Context(), token)
	if err != nil {
		a.log.Error("session lookup after login failed", "error", err)
		writeServiceError(w, err)
		return
	}

	setSessionCookie(w, token, session.ExpiresAt)
	http.Redirect(w, r, "/quiz", http.StatusFound)
}

func (a *API) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := a.auth.Logout(r.Context(), token); err != nil {
			a.log.Error("logout failed", "error", err)
		}
	}
	clearSessionCookie(w)
	redirectWithNotice(w, r, "/login", "Logged out.")
}

func (a *API) HandleQuiz(w http.ResponseWriter, r *http.Request) {
	date := a.today()
	questions, err := a.quiz.DailyQuestions(date)
	if err != nil {
		a.log.Error("daily selection failed", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quizResponse{
		QuizDate:  date.Format(quiz.DateLayout),
		Questions: questions,
	})
}

func (a *API) HandleQuizSubmit(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		redirectWithNotice(w, r, "/login", "Please log in to access the quiz.")
		return
	}

	answers, err := readAnswers(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid answers payload"})
		return
	}

	submission, err := a.quiz.Submit(r.Context(), principal.Username, a.today(), answers)
	if err != nil {
		a.log.Error("quiz submission failed", "user", principal.Username, "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submission)
}

func (a *API) HandleProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		redirectWithNotice(w, r, "/login", "Please log in to view your profile.")
		return
	}

	history, err := a.quiz.History(r.Context(), principal.Username)
	if err != nil {
		a.log.Error("history lookup failed", "user", principal.Username, "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		Username: principal.Username,
		History:  toHistoryItems(history),
	})
}

func (a *API) HandleResults(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		redirectWithNotice(w, r, "/login", "Please log in to view your results.")
		return
	}

	history, err := a.quiz.History(r.Context(), principal.Username)
	if err != nil {
		a.log.Error("history lookup failed", "user", principal.Username, "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultsResponse{History: toHistoryItems(history)})
}

// HandleChat relays a free-text question to the assistant endpoint. Any
// relay failure becomes the fixed fallback answer; the endpoint never
// surfaces a hard failure to the caller.
func (a *API) HandleChat(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var request chatRequest
	if err := readJSONBody(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(request.Question) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question is required"})
		return
	}

	answer, err := a.assistant.Ask(r.Context(), request.Question)
	if err != nil {
		a.log.Warn("assistant relay failed", "error", err)
		answer = assistant.FallbackAnswer
	}

	writeJSON(w, http.StatusOK, chatResponse{Answer: answer})
}
