package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AndreyStartsev/heb-tes-project/internal/domain"
)

const resultKeyPrefix = "quiz:result:"

// ResultStore persists completion records in Redis, one JSON value per quiz
// id under quiz:result:{quizID}. SETNX keeps records write-once and the key
// TTL implements the retention window (365 days in production).
type ResultStore struct {
	client    *redis.Client
	retention time.Duration
}

func NewResultStore(client *redis.Client, retention time.Duration) *ResultStore {
	return &ResultStore{client: client, retention: retention}
}

func (s *ResultStore) Get(ctx context.Context, quizID string) (domain.CompletionRecord, bool, error) {
	raw, err := s.client.Get(ctx, resultKeyPrefix+quizID).Result()
	if err == redis.Nil {
		return domain.CompletionRecord{}, false, nil
	}
	if err != nil {
		return domain.CompletionRecord{}, false, fmt.Errorf("get result: %w", err)
	}
	var record domain.CompletionRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return domain.CompletionRecord{}, false, fmt.Errorf("unmarshal result: %w", err)
	}
	return record, true, nil
}

func (s *ResultStore) List(ctx context.Context) (map[string]domain.CompletionRecord, error) {
	out := make(map[string]domain.CompletionRecord)
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, resultKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan results: %w", err)
		}
		for _, key := range keys {
			raw, err := s.client.Get(ctx, key).Result()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("get result %s: %w", key, err)
			}
			var record domain.CompletionRecord
			if err := json.Unmarshal([]byte(raw), &record); err != nil {
				return nil, fmt.Errorf("unmarshal result %s: %w", key, err)
			}
			out[strings.TrimPrefix(key, resultKeyPrefix)] = record
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return out, nil
}

// Save writes the record only if no record exists for the quiz yet.
func (s *ResultStore) Save(ctx context.Context, quizID string, record domain.CompletionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := s.client.SetNX(ctx, resultKeyPrefix+quizID, data, s.retention).Err(); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}
