package quiz

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

//go:embed questions.json
var defaultDataset []byte

type Option struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

type Question struct {
	PublicQuestion
	Answer string `json:"answer"`
}

// PublicQuestion is the part of a question that may be shown to a user
// before submission. The correct answer letter never leaves the server.
type PublicQuestion struct {
	QuestionID string   `json:"question_id"`
	Question   string   `json:"question"`
	Options    []Option `json:"options"`
}

// Bank is the static question collection. It is loaded once at startup and
// never mutated afterwards.
type Bank struct {
	questions []Question
}

func NewBank(questions []Question) (*Bank, error) {
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}
	copied := make([]Question, len(questions))
	copy(copied, questions)
	return &Bank{questions: copied}, nil
}

// LoadBank reads the question dataset from path. An empty path selects the
// embedded default dataset.
func LoadBank(path string) (*Bank, error) {
	data := defaultDataset
	if strings.TrimSpace(path) != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read question dataset: %w", err)
		}
		data = fileData
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse question dataset: %w", err)
	}
	return NewBank(questions)
}

func (b *Bank) Len() int {
	return len(b.questions)
}

// All returns the bank contents in dataset order. Callers must not modify
// the returned slice.
func (b *Bank) All() []Question {
	return b.questions
}

func validateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("question dataset is empty")
	}

	seen := make(map[string]struct{}, len(questions))
	for idx, question := range questions {
		if strings.TrimSpace(question.QuestionID) == "" {
			return fmt.Errorf("question %d: missing id", idx)
		}
		if _, dup := seen[question.QuestionID]; dup {
			return fmt.Errorf("question %q: duplicate id", question.QuestionID)
		}
		seen[question.QuestionID] = struct{}{}

		if strings.TrimSpace(question.Question) == "" {
			return fmt.Errorf("question %q: missing text", question.QuestionID)
		}
		if len(question.Options) < 2 {
			return fmt.Errorf("question %q: needs at least two options", question.QuestionID)
		}

		answerFound := false
		for _, option := range question.Options {
			if option.Letter == question.Answer {
				answerFound = true
				break
			}
		}
		if !answerFound {
			return fmt.Errorf("question %q: answer %q is not among its options", question.QuestionID, question.Answer)
		}
	}
	return nil
}

func ToPublicQuestions(questions []Question) []PublicQuestion {
	public := make([]PublicQuestion, 0, len(questions))
	for _, question := range questions {
		public = append(public, question.PublicQuestion)
	}
	return public
}

func normalizeLetter(answer string) string {
	letter := strings.ToUpper(strings.TrimSpace(answer))
	if len(letter) != 1 {
		return ""
	}
	return letter
}
