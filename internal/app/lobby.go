package app

import (
	"time"

	"github.com/AndreyStartsev/heb-tes-project/internal/domain"
)

// Classify computes the lobby state for each manifest entry, preserving
// manifest order. A quiz with a record is Completed; without one it is
// LockedToday when any record at all was finished on the given day (the
// one-quiz-per-day rule is global), and Available otherwise. Pure function
// of its inputs.
func Classify(manifest []domain.ManifestEntry, records map[string]domain.CompletionRecord, today time.Time) []domain.LobbyEntry {
	takenToday := false
	for _, record := range records {
		if record.CompletedOn(today) {
			takenToday = true
			break
		}
	}

	entries := make([]domain.LobbyEntry, 0, len(manifest))
	for _, item := range manifest {
		entry := domain.LobbyEntry{ID: item.ID, Title: item.Title}
		switch {
		case hasRecord(records, item.ID):
			entry.State = domain.QuizCompleted
		case takenToday:
			entry.State = domain.QuizLockedToday
		default:
			entry.State = domain.QuizAvailable
		}
		entries = append(entries, entry)
	}
	return entries
}

func hasRecord(records map[string]domain.CompletionRecord, quizID string) bool {
	_, ok := records[quizID]
	return ok
}
