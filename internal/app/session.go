package app

import (
	"sync"
	"time"

	"github.com/AndreyStartsev/heb-tes-project/internal/domain"
)

// Session owns the mutable state of one quiz visit: which questions are
// locked as correct, how many checks the current cycle has consumed, and
// when the visit started. It lives in memory only and is discarded when the
// visitor navigates away.
type Session struct {
	id    string
	quiz  domain.Quiz
	rules domain.Rules
	now   func() time.Time

	mu                sync.Mutex
	status            domain.SessionStatus
	attempt           int
	answeredCorrectly map[string]bool
	startedAt         time.Time
}

func newSession(id string, quiz domain.Quiz, rules domain.Rules) *Session {
	return newSessionWithClock(id, quiz, rules, time.Now)
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(id string, quiz domain.Quiz, rules domain.Rules, now func() time.Time) *Session {
	return &Session{
		id:                id,
		quiz:              quiz,
		rules:             rules,
		now:               now,
		status:            domain.SessionNotStarted,
		answeredCorrectly: make(map[string]bool),
		startedAt:         now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Quiz returns the content document the session was opened against.
func (s *Session) Quiz() domain.Quiz { return s.quiz }

// Status returns the current state of the attempt cycle.
func (s *Session) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Attempt returns how many checks the current cycle has consumed.
func (s *Session) Attempt() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempt
}

// Evaluate scores one submission pass. The attempt counter is consumed first,
// so an empty submission still costs a check. Questions already locked as
// correct keep their points and ignore whatever was submitted for them;
// everything else is scored against the correct answer. Unknown question ids
// in the submission are ignored.
//
// When the pass crosses the secret-word threshold (strict greater-than) the
// session terminates as Succeeded; when the cycle's checks run out first it
// terminates as Exhausted with the failing score kept. A terminal transition
// also returns the completion record for the caller to persist.
func (s *Session) Evaluate(submitted map[string]string) (domain.AttemptReport, *domain.CompletionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Terminal() {
		return domain.AttemptReport{}, nil, domain.ErrSessionFinished
	}
	s.status = domain.SessionInProgress
	s.attempt++

	total := 0
	feedback := make([]domain.QuestionFeedback, 0, s.quiz.QuestionCount())
	for _, block := range s.quiz.Blocks {
		for _, item := range block.Items {
			fb := domain.QuestionFeedback{QuestionID: item.ID}
			switch {
			case s.answeredCorrectly[item.ID]:
				fb.Feedback = domain.FeedbackLocked
				fb.Awarded = s.rules.PointsPerQuestion
			default:
				answer, ok := submitted[item.ID]
				switch {
				case !ok || answer == "":
					fb.Feedback = domain.FeedbackUnanswered
				case answer == item.CorrectAnswer:
					s.answeredCorrectly[item.ID] = true
					fb.Feedback = domain.FeedbackCorrect
					fb.Awarded = s.rules.PointsPerQuestion
				default:
					fb.Feedback = domain.FeedbackIncorrect
				}
			}
			total += fb.Awarded
			feedback = append(feedback, fb)
		}
	}

	switch {
	case total > s.rules.SecretWordThreshold:
		s.status = domain.SessionSucceeded
	case s.attempt < s.rules.MaxAttemptsPerCycle:
		// Cycle continues; unresolved questions stay editable.
	default:
		s.status = domain.SessionExhausted
	}

	report := domain.AttemptReport{
		Attempt:      s.attempt,
		AttemptsLeft: s.rules.MaxAttemptsPerCycle - s.attempt,
		Score:        total,
		MaxScore:     s.quiz.MaxScore(s.rules.PointsPerQuestion),
		Status:       s.status,
		Questions:    feedback,
	}
	if report.AttemptsLeft < 0 {
		report.AttemptsLeft = 0
	}

	var record *domain.CompletionRecord
	if s.status.Terminal() {
		s.fillFinalReport(report.Questions)
		if s.status == domain.SessionSucceeded {
			report.SecretWord = s.quiz.SecretWord
		}
		record = &domain.CompletionRecord{
			Score:     total,
			StartDate: s.startedAt,
			EndDate:   s.now(),
			Status:    domain.RecordStatus,
		}
	}
	return report, record, nil
}

// fillFinalReport attaches the correct answers and explanations for the
// detailed end-of-quiz report.
func (s *Session) fillFinalReport(feedback []domain.QuestionFeedback) {
	byID := make(map[string]*domain.QuestionFeedback, len(feedback))
	for i := range feedback {
		byID[feedback[i].QuestionID] = &feedback[i]
	}
	for _, block := range s.quiz.Blocks {
		for _, item := range block.Items {
			fb, ok := byID[item.ID]
			if !ok {
				continue
			}
			fb.CorrectAnswer = item.CorrectAnswer
			fb.CorrectText, _ = item.Options.Get(item.CorrectAnswer)
			fb.Explanation = item.Explanation
		}
	}
}

// Reset clears the lock set and attempt counter and returns to NotStarted.
// Once the session is terminal a record has already been persisted, so reset
// is refused rather than risking a second write.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Terminal() {
		return domain.ErrSessionFinished
	}
	s.answeredCorrectly = make(map[string]bool)
	s.attempt = 0
	s.status = domain.SessionNotStarted
	return nil
}
