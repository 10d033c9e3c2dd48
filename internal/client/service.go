// Package client implements the interactive terminal client for the
// cpr-quiz HTTP API.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

const (
	defaultServer      = "http://127.0.0.1:8080"
	defaultHTTPTimeout = 10 * time.Second
)

type Config struct {
	ServerURL   string
	HTTPTimeout time.Duration
}

// Run drives the interactive loop: read a command, call the API, print the
// outcome, repeat until exit or EOF.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		serverURL = defaultServer
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	api := NewHTTPClient(serverURL, &http.Client{Timeout: timeout})
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "cpr-quiz client\nserver=%s\n\n", serverURL)
	printHelp(out)

	for {
		fmt.Fprint(out, "\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])

		switch command {
		case "help":
			printHelp(out)
		case "exit":
			return nil
		case "register":
			if err := runRegister(ctx, reader, out, api); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case "login":
			if err := runLogin(ctx, reader, out, api); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case "logout":
			if err := api.Logout(ctx); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			} else {
				fmt.Fprintln(out, "Logged out.")
			}
		case "quiz":
			if err := runQuiz(ctx, reader, out, api); err != nil {
				fmt.Fprintf(out, "error: %v\n", describeError(err, serverURL))
			}
		case "history":
			if err := runHistory(ctx, out, api); err != nil {
				fmt.Fprintf(out, "error: %v\n", describeError(err, serverURL))
			}
		case "chat":
			question := strings.TrimSpace(strings.TrimPrefix(line, args[0]))
			if question == "" {
				fmt.Fprintln(out, "usage: chat <question>")
				continue
			}
			answer, err := api.Chat(ctx, question)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", describeError(err, serverURL))
				continue
			}
			fmt.Fprintln(out, answer)
		default:
			fmt.Fprintln(out, "unknown command. type 'help' for usage.")
		}
	}
}

func runRegister(ctx context.Context, reader *bufio.Reader, out io.Writer, api *HTTPClient) error {
	username, password, err := promptCredentials(reader, out)
	if err != nil {
		return err
	}
	notice, err := api.Register(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, notice)
	return nil
}

func runLogin(ctx context.Context, reader *bufio.Reader, out io.Writer, api *HTTPClient) error {
	username, password, err := promptCredentials(reader, out)
	if err != nil {
		return err
	}
	if err := api.Login(ctx, username, password); err != nil {
		return err
	}
	fmt.Fprintln(out, "Logged in.")
	return nil
}

func runQuiz(ctx context.Context, reader *bufio.Reader, out io.Writer, api *HTTPClient) error {
	payload, err := api.DailyQuiz(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Daily quiz for %s (%d questions)\n", payload.QuizDate, len(payload.Questions))

	answers := make(map[string]string, len(payload.Questions))
	for idx, question := range payload.Questions {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%d. %s\n\n", idx+1, question.Question)
		for _, option := range question.Options {
			fmt.Fprintf(out, "%s. %s\n", option.Letter, option.Text)
		}
		fmt.Fprintln(out)

		answer, ok := promptAnswer(reader, out, len(question.Options))
		if !ok {
			fmt.Fprintln(out, "Skipping question.")
			continue
		}
		answers[question.QuestionID] = answer
	}

	submission, err := api.SubmitAnswers(ctx, answers)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nScore: %d/%d\n", submission.Score, len(payload.Questions))
	printReview(out, payload, submission)
	return nil
}

func printReview(out io.Writer, payload quizPayload, submission submissionPayload) {
	ids := make([]string, 0, len(submission.Results))
	for id := range submission.Results {
		ids = append(ids, id)
	}
	// Present the review in the quiz's own question order.
	order := make(map[string]int, len(payload.Questions))
	for idx, question := range payload.Questions {
		order[question.QuestionID] = idx
	}
	sort.Slice(ids, func(i, j int) bool { return order[ids[i]] < order[ids[j]] })

	for _, id := range ids {
		item := submission.Results[id]
		selected := "(no answer)"
		if item.Selected != nil {
			selected = *item.Selected
		}
		marker := "wrong"
		if item.Selected != nil && *item.Selected == item.Correct {
			marker = "correct"
		}
		fmt.Fprintf(out, "- %s\n  your answer: %s, correct: %s (%s)\n", item.Question, selected, item.Correct, marker)
	}
}

func runHistory(ctx context.Context, out io.Writer, api *HTTPClient) error {
	history, err := api.History(ctx)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		fmt.Fprintln(out, "No quiz results yet.")
		return nil
	}

	fmt.Fprintln(out, "Your results:")
	for idx, item := range history {
		fmt.Fprintf(out, "%d. %s score=%d\n", idx+1, item.QuizDate, item.Score)
	}
	return nil
}

func promptCredentials(reader *bufio.Reader, out io.Writer) (string, string, error) {
	fmt.Fprint(out, "username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}
	fmt.Fprint(out, "password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(username), strings.TrimSpace(password), nil
}

func promptAnswer(reader *bufio.Reader, out io.Writer, optionCount int) (string, bool) {
	if optionCount < 1 {
		return "", false
	}

	maxLetter := byte('A' + optionCount - 1)
	fmt.Fprintf(out, "Your answer (A-%c, enter to skip): ", maxLetter)

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", false
	}

	answer := strings.ToUpper(strings.TrimSpace(line))
	if len(answer) != 1 {
		return "", false
	}
	letter := answer[0]
	if letter < 'A' || letter > maxLetter {
		return "", false
	}
	return answer, true
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  help")
	fmt.Fprintln(out, "  register")
	fmt.Fprintln(out, "  login")
	fmt.Fprintln(out, "  quiz")
	fmt.Fprintln(out, "  history")
	fmt.Fprintln(out, "  chat <question>")
	fmt.Fprintln(out, "  logout")
	fmt.Fprintln(out, "  exit")
}

func describeError(err error, serverURL string) error {
	if errors.Is(err, ErrServiceUnavailable) {
		return fmt.Errorf("quiz service unavailable at %s", serverURL)
	}
	return err
}
