package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ManifestEntry is one lobby row; manifest order is display order.
type ManifestEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// VocabEntry is a term/definition pair shown alongside a question.
type VocabEntry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Option is one answer choice. Keys are open strings ("a".."d" in practice).
type Option struct {
	Key  string
	Text string
}

// Options preserves the insertion order of the content document's option
// object, since display order matters.
type Options []Option

// Get returns the display text for a key.
func (o Options) Get(key string) (string, bool) {
	for _, opt := range o {
		if opt.Key == key {
			return opt.Text, true
		}
	}
	return "", false
}

// UnmarshalJSON reads a JSON object token by token so key order survives.
// Duplicate keys are rejected here rather than at evaluation time.
func (o *Options) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("options: expected object, got %v", tok)
	}

	seen := make(map[string]struct{})
	out := Options{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("options: duplicate key %q", key)
		}
		seen[key] = struct{}{}

		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("options: value for %q: %w", key, err)
		}
		out = append(out, Option{Key: key, Text: text})
	}
	*o = out
	return nil
}

// MarshalJSON writes the options back as an object in stored order.
func (o Options) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, opt := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(opt.Key)
		if err != nil {
			return nil, err
		}
		text, err := json.Marshal(opt.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(text)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Question is a single MCQ item inside a block.
type Question struct {
	ID            string       `json:"id"`
	HebrewContext string       `json:"hebrewContext,omitempty"`
	Vocabulary    []VocabEntry `json:"vocabulary,omitempty"`
	Text          string       `json:"questionText"`
	Options       Options      `json:"options"`
	CorrectAnswer string       `json:"correctAnswer"`
	Explanation   string       `json:"explanation,omitempty"`
}

// Block groups questions under an optional heading; block order matters.
type Block struct {
	Title string     `json:"blockTitle,omitempty"`
	Items []Question `json:"items"`
}

// Quiz is the immutable content document for one quiz.
// Field names match the static JSON files the content authors maintain.
type Quiz struct {
	ID         string  `json:"id,omitempty"`
	Title      string  `json:"quizTitle"`
	Intro      string  `json:"quizIntro"`
	SecretWord string  `json:"secretWord"`
	Blocks     []Block `json:"questions"`
}

// QuestionCount counts questions across all blocks.
func (q Quiz) QuestionCount() int {
	n := 0
	for _, b := range q.Blocks {
		n += len(b.Items)
	}
	return n
}

// MaxScore is the highest total a session over this quiz can reach.
func (q Quiz) MaxScore(pointsPerQuestion int) int {
	return q.QuestionCount() * pointsPerQuestion
}

// Validate enforces the content invariants at load time: question ids unique
// within the quiz, and every correctAnswer naming an existing option key.
// A quiz with zero questions is degenerate but valid.
func (q Quiz) Validate() error {
	seen := make(map[string]struct{})
	for _, block := range q.Blocks {
		for _, item := range block.Items {
			if item.ID == "" {
				return fmt.Errorf("%w: question with empty id", ErrInvalidQuiz)
			}
			if _, dup := seen[item.ID]; dup {
				return fmt.Errorf("%w: duplicate question id %q", ErrInvalidQuiz, item.ID)
			}
			seen[item.ID] = struct{}{}
			if _, ok := item.Options.Get(item.CorrectAnswer); !ok {
				return fmt.Errorf("%w: question %q: correctAnswer %q not among options",
					ErrInvalidQuiz, item.ID, item.CorrectAnswer)
			}
		}
	}
	return nil
}

// RecordStatus is the only status a persisted record ever carries.
const RecordStatus = "completed"

// CompletionRecord is written once when a session terminates and never
// mutated afterwards. Timestamps serialize as RFC 3339 / ISO-8601.
type CompletionRecord struct {
	Score     int       `json:"score"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Status    string    `json:"status"`
}

// CompletedOn reports whether the record's end date falls on the given
// calendar day (local date comparison, YYYY-MM-DD).
func (r CompletionRecord) CompletedOn(day time.Time) bool {
	ry, rm, rd := r.EndDate.Date()
	dy, dm, dd := day.Date()
	return ry == dy && rm == dm && rd == dd
}

// QuizState classifies a lobby entry.
type QuizState string

const (
	// QuizCompleted means a completion record exists for this quiz.
	QuizCompleted QuizState = "completed"
	// QuizLockedToday means another quiz was already finished today.
	QuizLockedToday QuizState = "locked_today"
	// QuizAvailable is the only state from which a session may start.
	QuizAvailable QuizState = "available"
)

// LobbyEntry is a manifest entry with its computed display state.
type LobbyEntry struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	State QuizState `json:"state"`
}

// SessionStatus tracks the attempt-cycle state machine.
type SessionStatus string

const (
	SessionNotStarted SessionStatus = "not_started"
	SessionInProgress SessionStatus = "in_progress"
	SessionSucceeded  SessionStatus = "succeeded"
	SessionExhausted  SessionStatus = "exhausted"
)

// Terminal reports whether the status can never change again.
func (s SessionStatus) Terminal() bool {
	return s == SessionSucceeded || s == SessionExhausted
}

// Feedback is the per-question outcome of one evaluation pass.
type Feedback string

const (
	// FeedbackLocked marks a question answered correctly on an earlier attempt.
	FeedbackLocked     Feedback = "locked"
	FeedbackCorrect    Feedback = "correct"
	FeedbackIncorrect  Feedback = "incorrect"
	FeedbackUnanswered Feedback = "unanswered"
)

// QuestionFeedback reports one question's outcome. CorrectAnswer and
// Explanation are only populated on terminal attempts (the detailed report).
type QuestionFeedback struct {
	QuestionID    string   `json:"questionId"`
	Feedback      Feedback `json:"feedback"`
	Awarded       int      `json:"awarded"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	CorrectText   string   `json:"correctText,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

// AttemptReport summarizes one evaluation pass.
type AttemptReport struct {
	Attempt      int                `json:"attempt"`
	AttemptsLeft int                `json:"attemptsLeft"`
	Score        int                `json:"score"`
	MaxScore     int                `json:"maxScore"`
	Status       SessionStatus      `json:"status"`
	SecretWord   string             `json:"secretWord,omitempty"`
	Questions    []QuestionFeedback `json:"questions"`
}
