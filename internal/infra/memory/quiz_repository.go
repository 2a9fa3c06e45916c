package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/AndreyStartsev/heb-tes-project/internal/domain"
)

// QuizLoader fetches quiz content and the manifest from a backing store
// (filesystem, Postgres, ...).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	LoadManifest(ctx context.Context) ([]domain.ManifestEntry, error)
}

// QuizRepository caches content with TTL to avoid repeated loader hits.
type QuizRepository struct {
	loader QuizLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu       sync.RWMutex
	cache    map[string]cachedQuiz
	manifest cachedManifest
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

type cachedManifest struct {
	entries   []domain.ManifestEntry
	expiresAt time.Time
}

func NewQuizRepository(loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuiz),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.quiz, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("quiz:"+quizID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.quiz, nil
		}
		r.mu.RUnlock()

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		r.mu.Lock()
		r.cache[quizID] = cachedQuiz{
			quiz:      quiz,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (r *QuizRepository) GetManifest(ctx context.Context) ([]domain.ManifestEntry, error) {
	now := r.clock()

	r.mu.RLock()
	if r.manifest.entries != nil && r.manifest.expiresAt.After(now) {
		entries := r.manifest.entries
		r.mu.RUnlock()
		return entries, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("manifest", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.manifest.entries != nil && r.manifest.expiresAt.After(now) {
			entries := r.manifest.entries
			r.mu.RUnlock()
			return entries, nil
		}
		r.mu.RUnlock()

		entries, err := r.loader.LoadManifest(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.manifest = cachedManifest{
			entries:   entries,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.ManifestEntry), nil
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticQuizLoader is a loader backed by an in-memory map (tests/demos).
type StaticQuizLoader struct {
	manifest []domain.ManifestEntry
	quizzes  map[string]domain.Quiz
}

func NewStaticQuizLoader(manifest []domain.ManifestEntry, quizzes map[string]domain.Quiz) *StaticQuizLoader {
	return &StaticQuizLoader{manifest: manifest, quizzes: quizzes}
}

func (l *StaticQuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := l.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (l *StaticQuizLoader) LoadManifest(_ context.Context) ([]domain.ManifestEntry, error) {
	return l.manifest, nil
}
