package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/AndreyStartsev/heb-tes-project/internal/domain"
	"github.com/AndreyStartsev/heb-tes-project/internal/infra/memory"
)

func TestQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(sampleManifest(), map[string]domain.Quiz{
			"quiz-1": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(newClient(mr), loader, time.Minute)

	quiz, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.quizCalls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.quizCalls)
	}
	if !mr.Exists("quiz:content:quiz-1") {
		t.Fatalf("expected quiz cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.quizCalls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.quizCalls)
	}

	// Option order must survive the redis round trip.
	want := quiz.Blocks[0].Items[0].Options
	got := cached.Blocks[0].Items[0].Options
	if len(got) != len(want) {
		t.Fatalf("options lost in cache: %+v", got)
	}
	for i := range want {
		if got[i].Key != want[i].Key {
			t.Fatalf("option order changed at %d: %q vs %q", i, got[i].Key, want[i].Key)
		}
	}
}

func TestQuizRepositoryCachesManifestInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(sampleManifest(), nil),
	}
	repo := NewQuizRepository(newClient(mr), loader, time.Minute)

	manifest, err := repo.GetManifest(context.Background())
	if err != nil {
		t.Fatalf("get manifest: %v", err)
	}
	if len(manifest) != 1 {
		t.Fatalf("unexpected manifest: %+v", manifest)
	}

	if _, err := repo.GetManifest(context.Background()); err != nil {
		t.Fatalf("get manifest 2: %v", err)
	}
	if loader.manifestCalls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.manifestCalls)
	}
}

type countingLoader struct {
	memory.QuizLoader
	quizCalls     int
	manifestCalls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.quizCalls++
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func (l *countingLoader) LoadManifest(ctx context.Context) ([]domain.ManifestEntry, error) {
	l.manifestCalls++
	return l.QuizLoader.LoadManifest(ctx)
}

func sampleManifest() []domain.ManifestEntry {
	return []domain.ManifestEntry{{ID: "quiz-1", Title: "Quiz 1"}}
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:         "quiz-1",
		Title:      "Quiz 1",
		SecretWord: "milah",
		Blocks: []domain.Block{{
			Items: []domain.Question{{
				ID:   "q1",
				Text: "2 + 2 = ?",
				Options: domain.Options{
					{Key: "a", Text: "3"},
					{Key: "b", Text: "4"},
					{Key: "c", Text: "5"},
				},
				CorrectAnswer: "b",
			}},
		}},
	}
}
