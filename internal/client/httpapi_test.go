package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.Handler) *HTTPClient {
	t.Helper()
	return newTestServerWith(t, nil, handler)
}

func newTestServerWith(t *testing.T, httpClient *http.Client, handler http.Handler) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewHTTPClient(server.URL, httpClient)
}

func TestRegisterReturnsServerNotice(t *testing.T) {
	client := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/register" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if r.PostFormValue("username") != "alice" {
			t.Errorf("unexpected username %q", r.PostFormValue("username"))
		}
		http.Redirect(w, r, "/login?notice=Registration+successful.+Please+log+in.", http.StatusFound)
	}))

	notice, err := client.Register(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if notice != "Registration successful. Please log in." {
		t.Errorf("unexpected notice %q", notice)
	}
}

func TestLoginStoresSessionCookie(t *testing.T) {
	client := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			http.SetCookie(w, &http.Cookie{Name: "cpr_session", Value: "token-123", Path: "/"})
			http.Redirect(w, r, "/quiz", http.StatusFound)
		case "/results":
			if cookie, err := r.Cookie("cpr_session"); err != nil || cookie.Value != "token-123" {
				t.Error("expected the session cookie on authenticated calls")
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"history": []}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	if err := client.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !client.LoggedIn() {
		t.Error("expected client to report a live session")
	}
	if _, err := client.History(context.Background()); err != nil {
		t.Fatalf("History failed: %v", err)
	}
}

func TestLoginSurfacesRejectionNotice(t *testing.T) {
	client := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login?notice=Invalid+credentials.", http.StatusFound)
	}))

	err := client.Login(context.Background(), "alice", "wrong")
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != "Invalid credentials." {
		t.Errorf("expected the server notice, got %q", err.Error())
	}
	if client.LoggedIn() {
		t.Error("failed login must not store a session")
	}
}

func TestSessionGateBecomesAPIError(t *testing.T) {
	client := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login?notice=Please+log+in+to+access+the+quiz.", http.StatusFound)
	}))

	_, err := client.DailyQuiz(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected an APIError, got %v", err)
	}
	if apiErr.Message != "Please log in to access the quiz." {
		t.Errorf("expected the gate notice, got %q", apiErr.Message)
	}
}

func TestSubmitAnswersRoundTrip(t *testing.T) {
	client := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/quiz" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Answers map[string]string `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode answers: %v", err)
		}
		if body.Answers["1"] != "A" {
			t.Errorf("unexpected answers %v", body.Answers)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"score": 7, "quiz_date": "2024-03-09", "results": {}}`))
	}))

	submission, err := client.SubmitAnswers(context.Background(), map[string]string{"1": "A"})
	if err != nil {
		t.Fatalf("SubmitAnswers failed: %v", err)
	}
	if submission.Score != 7 || submission.QuizDate != "2024-03-09" {
		t.Errorf("unexpected submission %+v", submission)
	}
}

func TestChatReturnsAnswer(t *testing.T) {
	client := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer": "Start compressions."}`))
	}))

	answer, err := client.Chat(context.Background(), "What first?")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if answer != "Start compressions." {
		t.Errorf("unexpected answer %q", answer)
	}
}

func TestErrorPayloadBecomesAPIError(t *testing.T) {
	client := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "question is required"}`))
	}))

	_, err := client.Chat(context.Background(), "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected an APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "question is required" {
		t.Errorf("unexpected APIError %+v", apiErr)
	}
}

func TestServerDownWrapsErrServiceUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client := NewHTTPClient(server.URL, nil)
	server.Close()

	_, err := client.DailyQuiz(context.Background())
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestNewHTTPClientLeavesCallerClientUntouched(t *testing.T) {
	shared := &http.Client{}

	client := newTestServerWith(t, shared, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login?notice=Please+log+in+to+access+the+quiz.", http.StatusFound)
	}))

	// The wrapper must not follow redirects, but the caller's own client
	// keeps the default policy.
	_, err := client.DailyQuiz(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected an APIError from the redirect, got %v", err)
	}
	if shared.CheckRedirect != nil {
		t.Error("caller-supplied client must keep its redirect policy")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	client := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			http.SetCookie(w, &http.Cookie{Name: "cpr_session", Value: "token-123", Path: "/"})
			http.Redirect(w, r, "/quiz", http.StatusFound)
		case "/logout":
			http.Redirect(w, r, "/login?notice=Logged+out.", http.StatusFound)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	if err := client.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if client.LoggedIn() {
		t.Error("expected the session cleared after logout")
	}
}
