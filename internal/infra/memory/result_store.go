package memory

import (
	"context"
	"sync"
	"time"

	"github.com/AndreyStartsev/heb-tes-project/internal/domain"
)

// ResultStore keeps completion records in memory with the same retention
// semantics as the durable stores: write-once per quiz id, expiring after
// the retention window.
type ResultStore struct {
	retention time.Duration
	clock     func() time.Time

	mu      sync.RWMutex
	records map[string]storedRecord
}

type storedRecord struct {
	record    domain.CompletionRecord
	expiresAt time.Time
}

func NewResultStore(retention time.Duration) *ResultStore {
	return &ResultStore{
		retention: retention,
		clock:     time.Now,
		records:   make(map[string]storedRecord),
	}
}

func (s *ResultStore) Get(_ context.Context, quizID string) (domain.CompletionRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.records[quizID]
	if !ok || !entry.expiresAt.After(s.clock()) {
		return domain.CompletionRecord{}, false, nil
	}
	return entry.record, true, nil
}

func (s *ResultStore) List(_ context.Context) (map[string]domain.CompletionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.clock()
	out := make(map[string]domain.CompletionRecord, len(s.records))
	for quizID, entry := range s.records {
		if entry.expiresAt.After(now) {
			out[quizID] = entry.record
		}
	}
	return out, nil
}

// Save stores the record unless one already exists; records are never
// overwritten once written.
func (s *ResultStore) Save(_ context.Context, quizID string, record domain.CompletionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.records[quizID]; ok && entry.expiresAt.After(s.clock()) {
		return nil
	}
	s.records[quizID] = storedRecord{
		record:    record,
		expiresAt: s.clock().Add(s.retention),
	}
	return nil
}
