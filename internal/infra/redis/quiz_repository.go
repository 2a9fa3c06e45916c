package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/AndreyStartsev/heb-tes-project/internal/domain"
)

// QuizLoader fetches quiz content and the manifest from a backing store.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	LoadManifest(ctx context.Context) ([]domain.ManifestEntry, error)
}

const (
	contentKeyPrefix = "quiz:content:"
	manifestKey      = "quiz:manifest"
)

// QuizRepository caches whole content documents in Redis as JSON and falls
// back to the loader on cache miss. Keys:
//
//	quiz:content:{quizID} -> quiz document JSON
//	quiz:manifest         -> manifest JSON
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	key := contentKeyPrefix + quizID

	if quiz, ok, err := r.cachedQuiz(ctx, key); err == nil && ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok, err := r.cachedQuiz(ctx, key); err == nil && ok {
			return quiz, nil
		}

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		data, err := json.Marshal(quiz)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("marshal quiz: %w", err)
		}
		_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (r *QuizRepository) GetManifest(ctx context.Context) ([]domain.ManifestEntry, error) {
	if entries, ok, err := r.cachedManifest(ctx); err == nil && ok {
		return entries, nil
	}

	result, err, _ := r.sf.Do(manifestKey, func() (interface{}, error) {
		if entries, ok, err := r.cachedManifest(ctx); err == nil && ok {
			return entries, nil
		}

		entries, err := r.loader.LoadManifest(ctx)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(entries)
		if err != nil {
			return nil, fmt.Errorf("marshal manifest: %w", err)
		}
		_ = r.client.Set(ctx, manifestKey, data, r.ttlWithJitter()).Err()
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.ManifestEntry), nil
}

func (r *QuizRepository) cachedQuiz(ctx context.Context, key string) (domain.Quiz, bool, error) {
	raw, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return domain.Quiz{}, false, nil
	}
	if err != nil {
		return domain.Quiz{}, false, err
	}
	var quiz domain.Quiz
	if err := json.Unmarshal([]byte(raw), &quiz); err != nil {
		return domain.Quiz{}, false, err
	}
	return quiz, true, nil
}

func (r *QuizRepository) cachedManifest(ctx context.Context) ([]domain.ManifestEntry, bool, error) {
	raw, err := r.client.Get(ctx, manifestKey).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var entries []domain.ManifestEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
