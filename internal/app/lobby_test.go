package app_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/AndreyStartsev/heb-tes-project/internal/app"
	"github.com/AndreyStartsev/heb-tes-project/internal/domain"
)

func TestClassifyLockedToday(t *testing.T) {
	today := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	manifest := []domain.ManifestEntry{
		{ID: "q1", Title: "Quiz 1"},
		{ID: "q2", Title: "Quiz 2"},
	}
	records := map[string]domain.CompletionRecord{
		"q1": {Score: 120, EndDate: today.Add(-2 * time.Hour), Status: domain.RecordStatus},
	}

	entries := app.Classify(manifest, records, today)
	if entries[0].State != domain.QuizCompleted {
		t.Fatalf("expected q1 completed, got %s", entries[0].State)
	}
	if entries[1].State != domain.QuizLockedToday {
		t.Fatalf("expected q2 locked today, got %s", entries[1].State)
	}
}

func TestClassifyAllAvailableWithoutRecords(t *testing.T) {
	manifest := []domain.ManifestEntry{{ID: "q1"}, {ID: "q2"}}
	entries := app.Classify(manifest, nil, time.Now())
	for _, entry := range entries {
		if entry.State != domain.QuizAvailable {
			t.Fatalf("expected %s available, got %s", entry.ID, entry.State)
		}
	}
}

func TestClassifyYesterdayRecordDoesNotLock(t *testing.T) {
	today := time.Date(2026, 8, 31, 9, 0, 0, 0, time.Local)
	manifest := []domain.ManifestEntry{{ID: "q1"}, {ID: "q2"}}
	records := map[string]domain.CompletionRecord{
		"q1": {EndDate: today.AddDate(0, 0, -1), Status: domain.RecordStatus},
	}

	entries := app.Classify(manifest, records, today)
	if entries[0].State != domain.QuizCompleted {
		t.Fatalf("expected q1 completed, got %s", entries[0].State)
	}
	if entries[1].State != domain.QuizAvailable {
		t.Fatalf("expected q2 available, got %s", entries[1].State)
	}
}

func TestClassifyPreservesManifestOrder(t *testing.T) {
	manifest := []domain.ManifestEntry{{ID: "z"}, {ID: "a"}, {ID: "m"}}
	entries := app.Classify(manifest, nil, time.Now())
	for i, item := range manifest {
		if entries[i].ID != item.ID {
			t.Fatalf("order changed at %d: expected %s, got %s", i, item.ID, entries[i].ID)
		}
	}
}

func TestClassifyIsPure(t *testing.T) {
	today := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	manifest := []domain.ManifestEntry{{ID: "q1"}, {ID: "q2"}}
	records := map[string]domain.CompletionRecord{
		"q1": {Score: 60, EndDate: today, Status: domain.RecordStatus},
	}

	first := app.Classify(manifest, records, today)
	second := app.Classify(manifest, records, today)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("classify is not idempotent: %+v vs %+v", first, second)
	}
}
