package app

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/AndreyStartsev/heb-tes-project/internal/domain"
)

// SessionRepository abstracts how live sessions are held (in-memory per visit).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuizRepository loads quiz content and the manifest (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	GetManifest(ctx context.Context) ([]domain.ManifestEntry, error)
}

// ResultRepository persists completion records (write-once, 365-day retention).
type ResultRepository interface {
	Get(ctx context.Context, quizID string) (domain.CompletionRecord, bool, error)
	List(ctx context.Context) (map[string]domain.CompletionRecord, error)
	Save(ctx context.Context, quizID string, record domain.CompletionRecord) error
}

// QuizService contains the quiz use cases: entry guard, the attempt cycle,
// and lobby classification.
type QuizService struct {
	sessions SessionRepository
	quizzes  QuizRepository
	results  ResultRepository
	rules    domain.Rules
	now      func() time.Time
}

func NewQuizService(sessions SessionRepository, quizzes QuizRepository, results ResultRepository, rules domain.Rules) *QuizService {
	return &QuizService{
		sessions: sessions,
		quizzes:  quizzes,
		results:  results,
		rules:    rules,
		now:      time.Now,
	}
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, quiz domain.Quiz, rules domain.Rules, now func() time.Time) *Session {
	return newSessionWithClock(id, quiz, rules, now)
}

// WithClock overrides the service clock; test-only.
func (s *QuizService) WithClock(now func() time.Time) *QuizService {
	s.now = now
	return s
}

// SessionView is what a freshly opened session hands to the presentation
// layer: the session id plus the full content document.
type SessionView struct {
	SessionID string      `json:"sessionId"`
	Quiz      domain.Quiz `json:"quiz"`
	Attempts  int         `json:"attempts"`
}

// StartSession guards entry to a quiz and opens a session for it. Entry is
// refused when the id is missing, or when a completion record already exists
// for the quiz (one completion per quiz, ever).
func (s *QuizService) StartSession(ctx context.Context, quizID string) (SessionView, error) {
	if quizID == "" {
		return SessionView{}, domain.ErrMissingQuizID
	}
	if _, done, err := s.results.Get(ctx, quizID); err != nil {
		return SessionView{}, err
	} else if done {
		return SessionView{}, domain.ErrQuizAlreadyCompleted
	}

	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return SessionView{}, err
	}

	session := newSessionWithClock(uuid.NewString(), quiz, s.rules, s.now)
	s.sessions.Put(session)
	return SessionView{
		SessionID: session.ID(),
		Quiz:      quiz,
		Attempts:  s.rules.MaxAttemptsPerCycle,
	}, nil
}

// Evaluate scores one submission for a live session. When the session
// terminates the completion record is persisted best-effort: the report is
// always returned and a failed write only logged, since the next page load
// re-reads the store anyway.
func (s *QuizService) Evaluate(ctx context.Context, sessionID string, answers map[string]string) (domain.AttemptReport, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.AttemptReport{}, domain.ErrSessionNotFound
	}

	report, record, err := session.Evaluate(answers)
	if err != nil {
		return domain.AttemptReport{}, err
	}
	if record != nil {
		if err := s.results.Save(ctx, session.Quiz().ID, *record); err != nil {
			log.Printf("failed to persist completion record for quiz %s: %v", session.Quiz().ID, err)
		}
	}
	return report, nil
}

// Reset restarts the attempt cycle of a live, non-terminal session.
func (s *QuizService) Reset(_ context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.Reset()
}

// EndSession discards a live session (visitor navigated away).
func (s *QuizService) EndSession(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

// ListQuizzes classifies every manifest entry for the lobby.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]domain.LobbyEntry, error) {
	manifest, err := s.quizzes.GetManifest(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.results.List(ctx)
	if err != nil {
		return nil, err
	}
	return Classify(manifest, records, s.now()), nil
}

// ResultsSummary returns every persisted completion record keyed by quiz id.
func (s *QuizService) ResultsSummary(ctx context.Context) (map[string]domain.CompletionRecord, error) {
	return s.results.List(ctx)
}

// TodayQuiz picks the quiz of the day by cycling through the manifest on the
// number of days since the Unix epoch.
func (s *QuizService) TodayQuiz(ctx context.Context) (domain.ManifestEntry, error) {
	manifest, err := s.quizzes.GetManifest(ctx)
	if err != nil {
		return domain.ManifestEntry{}, err
	}
	if len(manifest) == 0 {
		return domain.ManifestEntry{}, domain.ErrQuizNotFound
	}
	dayIndex := s.now().Unix() / int64(24*time.Hour/time.Second)
	return manifest[int(dayIndex%int64(len(manifest)))], nil
}
