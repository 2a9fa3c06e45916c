package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AndreyStartsev/heb-tes-project/internal/app"
	"github.com/AndreyStartsev/heb-tes-project/internal/domain"
	"github.com/AndreyStartsev/heb-tes-project/internal/infra/memory"
)

func newTestService(quizzes map[string]domain.Quiz, manifest []domain.ManifestEntry) (*app.QuizService, *memory.ResultStore) {
	results := memory.NewResultStore(365 * 24 * time.Hour)
	repo := memory.NewQuizRepository(memory.NewStaticQuizLoader(manifest, quizzes), 5*time.Minute)
	service := app.NewQuizService(memory.NewSessionStore(), repo, results, domain.DefaultRules())
	return service, results
}

func TestStartSessionGuards(t *testing.T) {
	ctx := context.Background()
	quiz := makeQuiz("quiz-1", 5)
	service, results := newTestService(
		map[string]domain.Quiz{"quiz-1": quiz},
		[]domain.ManifestEntry{{ID: "quiz-1", Title: "Quiz 1"}},
	)

	if _, err := service.StartSession(ctx, ""); !errors.Is(err, domain.ErrMissingQuizID) {
		t.Fatalf("expected ErrMissingQuizID, got %v", err)
	}
	if _, err := service.StartSession(ctx, "quiz-404"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}

	if err := results.Save(ctx, "quiz-1", domain.CompletionRecord{Score: 60, Status: domain.RecordStatus}); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	if _, err := service.StartSession(ctx, "quiz-1"); !errors.Is(err, domain.ErrQuizAlreadyCompleted) {
		t.Fatalf("expected ErrQuizAlreadyCompleted, got %v", err)
	}
}

func TestEvaluatePersistsRecordOnSuccess(t *testing.T) {
	ctx := context.Background()
	quiz := makeQuiz("quiz-1", 20)
	service, results := newTestService(
		map[string]domain.Quiz{"quiz-1": quiz},
		[]domain.ManifestEntry{{ID: "quiz-1", Title: "Quiz 1"}},
	)

	view, err := service.StartSession(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if view.SessionID == "" || view.Quiz.ID != "quiz-1" || view.Attempts != 3 {
		t.Fatalf("unexpected session view: %+v", view)
	}

	report, err := service.Evaluate(ctx, view.SessionID, allCorrect(20))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if report.Status != domain.SessionSucceeded || report.SecretWord == "" {
		t.Fatalf("expected success with secret word, got %+v", report)
	}

	record, ok, err := results.Get(ctx, "quiz-1")
	if err != nil || !ok {
		t.Fatalf("expected persisted record, ok=%v err=%v", ok, err)
	}
	if record.Score != 120 || record.Status != domain.RecordStatus {
		t.Fatalf("unexpected record: %+v", record)
	}

	// The quiz is now closed for a second visit.
	if _, err := service.StartSession(ctx, "quiz-1"); !errors.Is(err, domain.ErrQuizAlreadyCompleted) {
		t.Fatalf("expected re-entry blocked, got %v", err)
	}
}

func TestEvaluatePersistsFailingScoreOnExhaustion(t *testing.T) {
	ctx := context.Background()
	quiz := makeQuiz("quiz-1", 10)
	service, results := newTestService(
		map[string]domain.Quiz{"quiz-1": quiz},
		[]domain.ManifestEntry{{ID: "quiz-1", Title: "Quiz 1"}},
	)

	view, err := service.StartSession(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	var report domain.AttemptReport
	for i := 0; i < 3; i++ {
		report, err = service.Evaluate(ctx, view.SessionID, allCorrect(10))
		if err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}
	if report.Status != domain.SessionExhausted {
		t.Fatalf("expected exhausted, got %s", report.Status)
	}

	record, ok, err := results.Get(ctx, "quiz-1")
	if err != nil || !ok {
		t.Fatalf("expected persisted record, ok=%v err=%v", ok, err)
	}
	if record.Score != 60 {
		t.Fatalf("expected failing score 60 recorded, got %d", record.Score)
	}
}

func TestEvaluateUnknownSession(t *testing.T) {
	service, _ := newTestService(nil, nil)
	if _, err := service.Evaluate(context.Background(), "missing", nil); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := service.Reset(context.Background(), "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestListQuizzesClassification(t *testing.T) {
	ctx := context.Background()
	manifest := []domain.ManifestEntry{
		{ID: "q1", Title: "Quiz 1"},
		{ID: "q2", Title: "Quiz 2"},
	}
	service, results := newTestService(map[string]domain.Quiz{}, manifest)
	now := time.Date(2026, 8, 31, 15, 0, 0, 0, time.Local)
	service.WithClock(fixedClock(now))

	entries, err := service.ListQuizzes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, entry := range entries {
		if entry.State != domain.QuizAvailable {
			t.Fatalf("expected all available, got %+v", entry)
		}
	}

	if err := results.Save(ctx, "q1", domain.CompletionRecord{
		Score: 120, StartDate: now.Add(-time.Hour), EndDate: now, Status: domain.RecordStatus,
	}); err != nil {
		t.Fatalf("save record: %v", err)
	}

	entries, err = service.ListQuizzes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if entries[0].State != domain.QuizCompleted || entries[1].State != domain.QuizLockedToday {
		t.Fatalf("unexpected classification: %+v", entries)
	}
}

func TestTodayQuizRotation(t *testing.T) {
	ctx := context.Background()
	manifest := []domain.ManifestEntry{
		{ID: "quiz1"}, {ID: "quiz2"}, {ID: "quiz3"},
	}
	service, _ := newTestService(nil, manifest)

	day := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	service.WithClock(fixedClock(day))
	first, err := service.TodayQuiz(ctx)
	if err != nil {
		t.Fatalf("today quiz: %v", err)
	}

	service.WithClock(fixedClock(day.AddDate(0, 0, 1)))
	second, err := service.TodayQuiz(ctx)
	if err != nil {
		t.Fatalf("today quiz: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected rotation to advance, got %s twice", first.ID)
	}

	service.WithClock(fixedClock(day.AddDate(0, 0, 3)))
	wrapped, err := service.TodayQuiz(ctx)
	if err != nil {
		t.Fatalf("today quiz: %v", err)
	}
	if wrapped.ID != first.ID {
		t.Fatalf("expected cycle of 3 to wrap back to %s, got %s", first.ID, wrapped.ID)
	}
}

func TestTodayQuizEmptyManifest(t *testing.T) {
	service, _ := newTestService(nil, nil)
	if _, err := service.TodayQuiz(context.Background()); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}
