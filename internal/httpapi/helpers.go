package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cpr-quiz/internal/quiz"
)

const sessionCookieName = "cpr_session"

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrBankTooSmall):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "daily quiz unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

// redirectWithNotice sends the user to path carrying a user-visible notice as
// a query parameter, the template-free stand-in for a flash message.
func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	target := path
	if notice != "" {
		target += "?notice=" + url.QueryEscape(notice)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// readCredentials accepts both form posts (the original surface) and JSON
// bodies.
func readCredentials(r *http.Request) (username, password string, err error) {
	if isJSONRequest(r) {
		defer r.Body.Close()
		var body credentialsRequest
		if decodeErr := json.NewDecoder(r.Body).Decode(&body); decodeErr != nil {
			return "", "", decodeErr
		}
		return body.Username, body.Password, nil
	}

	if parseErr := r.ParseForm(); parseErr != nil {
		return "", "", parseErr
	}
	return r.PostFormValue("username"), r.PostFormValue("password"), nil
}

// readAnswers accepts either a JSON body {"answers": {...}} or the
// original's form field "answers" holding the same JSON object.
func readAnswers(r *http.Request) (map[string]string, error) {
	if isJSONRequest(r) {
		defer r.Body.Close()
		var body answersRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, err
		}
		if body.Answers == nil {
			return map[string]string{}, nil
		}
		return body.Answers, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(r.PostFormValue("answers"))
	if raw == "" {
		return map[string]string{}, nil
	}
	answers := make(map[string]string)
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

func readJSONBody(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

func isJSONRequest(r *http.Request) bool {
	contentType := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	return strings.HasPrefix(contentType, "application/json")
}

func toHistoryItems(results []quiz.Result) []historyItem {
	items := make([]historyItem, 0, len(results))
	for _, result := range results {
		items = append(items, historyItem{
			Score:    result.Score,
			QuizDate: result.QuizDate.Format(quiz.DateLayout),
		})
	}
	return items
}
