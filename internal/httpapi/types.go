package httpapi

import "cpr-quiz/internal/quiz"

type landingResponse struct {
	Service string `json:"service"`
	Message string `json:"message"`
}

// pageResponse stands in for the form pages the original rendered as HTML.
// Templating is out of scope, so GET /login and GET /register return the
// page name plus any notice carried over from a redirect.
type pageResponse struct {
	Page   string `json:"page"`
	Notice string `json:"notice,omitempty"`
}

type quizResponse struct {
	QuizDate  string                `json:"quiz_date"`
	Questions []quiz.PublicQuestion `json:"questions"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type answersRequest struct {
	Answers map[string]string `json:"answers"`
}

type historyItem struct {
	Score    int    `json:"score"`
	QuizDate string `json:"quiz_date"`
}

type profileResponse struct {
	Username string        `json:"username"`
	History  []historyItem `json:"history"`
}

type resultsResponse struct {
	History []historyItem `json:"history"`
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}
