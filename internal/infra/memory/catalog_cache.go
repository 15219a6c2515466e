package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"cyberguard-quiz-service/internal/app"
	"cyberguard-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

const quizListKey = "quizzes"

// CatalogCache caches quiz content with TTL to avoid repeated backend hits.
type CatalogCache struct {
	next  app.QuizCatalog
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand
	rndMu sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedEntry
}

type cachedEntry struct {
	value     any
	expiresAt time.Time
}

func NewCatalogCache(next app.QuizCatalog, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		next:  next,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[string]cachedEntry),
	}
}

func (c *CatalogCache) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	v, err := c.get(ctx, quizListKey, func() (any, error) {
		return c.next.ListQuizzes(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Quiz), nil
}

func (c *CatalogCache) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	v, err := c.get(ctx, "quiz:"+quizID, func() (any, error) {
		return c.next.GetQuiz(ctx, quizID)
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return v.(domain.Quiz), nil
}

func (c *CatalogCache) ListQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	v, err := c.get(ctx, "questions:"+quizID, func() (any, error) {
		return c.next.ListQuestions(ctx, quizID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Question), nil
}

// get serves key from cache or loads it once for all concurrent callers.
// Errors are never cached.
func (c *CatalogCache) get(_ context.Context, key string, load func() (any, error)) (any, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.value, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.value, nil
		}
		c.mu.RUnlock()

		value, err := load()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[key] = cachedEntry{
			value:     value,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
