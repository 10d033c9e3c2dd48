package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"cpr-quiz/internal/quiz"
)

var ErrServiceUnavailable = errors.New("quiz service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// HTTPClient talks to the cpr-quiz HTTP surface. It holds the session cookie
// between calls and never follows the server's form-flow redirects; a
// redirect plus its notice parameter IS the server's answer for those routes.
type HTTPClient struct {
	baseURL      string
	httpClient   *http.Client
	sessionToken string
}

type quizPayload struct {
	QuizDate  string                `json:"quiz_date"`
	Questions []quiz.PublicQuestion `json:"questions"`
}

type submissionPayload struct {
	Score    int                        `json:"score"`
	QuizDate string                     `json:"quiz_date"`
	Results  map[string]quiz.ReviewItem `json:"results"`
}

type historyPayload struct {
	History []historyItem `json:"history"`
}

type historyItem struct {
	Score    int    `json:"score"`
	QuizDate string `json:"quiz_date"`
}

type chatPayload struct {
	Answer string `json:"answer"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	// Copy the caller's client so setting the redirect policy does not
	// leak into a shared object.
	var inner http.Client
	if httpClient != nil {
		inner = *httpClient
	}
	// Redirects carry the outcome of form flows; surface them to the caller.
	inner.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &inner,
	}
}

func (c *HTTPClient) LoggedIn() bool {
	return c.sessionToken != ""
}

// Register creates an account and returns the server's notice.
func (c *HTTPClient) Register(ctx context.Context, username, password string) (string, error) {
	response, err := c.postCredentials(ctx, "/register", username, password)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	notice, err := redirectNotice(response)
	if err != nil {
		return "", err
	}
	return notice, nil
}

// Login establishes a session and stores the cookie for later calls.
func (c *HTTPClient) Login(ctx context.Context, username, password string) error {
	response, err := c.postCredentials(ctx, "/login", username, password)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	location, noticeErr := redirectLocation(response)
	if noticeErr != nil {
		return noticeErr
	}
	if location.Path != "/quiz" {
		notice := location.Query().Get("notice")
		if notice == "" {
			notice = "login failed"
		}
		return errors.New(notice)
	}

	for _, cookie := range response.Cookies() {
		if cookie.Name == "cpr_session" && cookie.Value != "" {
			c.sessionToken = cookie.Value
			return nil
		}
	}
	return errors.New("server did not set a session cookie")
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	response, err := c.do(ctx, http.MethodGet, "/logout", nil)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	c.sessionToken = ""
	return nil
}

func (c *HTTPClient) DailyQuiz(ctx context.Context) (quizPayload, error) {
	var payload quizPayload
	if err := c.doJSON(ctx, http.MethodGet, "/quiz", nil, &payload); err != nil {
		return quizPayload{}, err
	}
	return payload, nil
}

func (c *HTTPClient) SubmitAnswers(ctx context.Context, answers map[string]string) (submissionPayload, error) {
	request := struct {
		Answers map[string]string `json:"answers"`
	}{Answers: answers}

	var payload submissionPayload
	if err := c.doJSON(ctx, http.MethodPost, "/quiz", request, &payload); err != nil {
		return submissionPayload{}, err
	}
	return payload, nil
}

func (c *HTTPClient) History(ctx context.Context) ([]historyItem, error) {
	var payload historyPayload
	if err := c.doJSON(ctx, http.MethodGet, "/results", nil, &payload); err != nil {
		return nil, err
	}
	return payload.History, nil
}

func (c *HTTPClient) Chat(ctx context.Context, question string) (string, error) {
	request := struct {
		Question string `json:"question"`
	}{Question: question}

	var payload chatPayload
	if err := c.doJSON(ctx, http.MethodPost, "/chat", request, &payload); err != nil {
		return "", err
	}
	return payload.Answer, nil
}

func (c *HTTPClient) postCredentials(ctx context.Context, path, username, password string) (*http.Response, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return response, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.sessionToken != "" {
		request.AddCookie(&http.Cookie{Name: "cpr_session", Value: c.sessionToken})
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return response, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.sessionToken != "" {
		request.AddCookie(&http.Cookie{Name: "cpr_session", Value: c.sessionToken})
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	// Session-gated routes answer a missing session with a redirect to
	// /login; report the carried notice instead of a bare status code.
	if response.StatusCode == http.StatusFound {
		location, locErr := redirectLocation(response)
		if locErr == nil {
			return &APIError{
				StatusCode: response.StatusCode,
				Message:    location.Query().Get("notice"),
			}
		}
		return &APIError{StatusCode: response.StatusCode}
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorPayload
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}

func redirectLocation(response *http.Response) (*url.URL, error) {
	if response.StatusCode != http.StatusFound && response.StatusCode != http.StatusSeeOther {
		return nil, &APIError{StatusCode: response.StatusCode, Message: response.Status}
	}
	location, err := response.Location()
	if err != nil {
		return nil, fmt.Errorf("missing redirect location: %w", err)
	}
	return location, nil
}

func redirectNotice(response *http.Response) (string, error) {
	location, err := redirectLocation(response)
	if err != nil {
		return "", err
	}
	return location.Query().Get("notice"), nil
}
