package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"cyberguard-quiz-service/internal/app"
	"cyberguard-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CatalogCache caches quiz content in Redis as JSON and falls back to the
// wrapped catalog on a miss. Keys:
//
//	quiz:catalog:list               the quiz list
//	quiz:catalog:item:{quizID}      one quiz
//	quiz:catalog:questions:{quizID} the quiz's questions with their options
type CatalogCache struct {
	client *redis.Client
	next   app.QuizCatalog
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewCatalogCache(client *redis.Client, next app.QuizCatalog, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		next:   next,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CatalogCache) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	var quizzes []domain.Quiz
	err := c.get(ctx, "quiz:catalog:list", &quizzes, func() (any, error) {
		return c.next.ListQuizzes(ctx)
	})
	return quizzes, err
}

func (c *CatalogCache) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := c.get(ctx, "quiz:catalog:item:"+quizID, &quiz, func() (any, error) {
		return c.next.GetQuiz(ctx, quizID)
	})
	return quiz, err
}

func (c *CatalogCache) ListQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	var questions []domain.Question
	err := c.get(ctx, "quiz:catalog:questions:"+quizID, &questions, func() (any, error) {
		return c.next.ListQuestions(ctx, quizID)
	})
	return questions, err
}

// get decodes key into dst, loading and storing it on a miss. Redis failures
// degrade to the wrapped catalog; loader errors are returned and not cached.
func (c *CatalogCache) get(ctx context.Context, key string, dst any, load func() (any, error)) error {
	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		if err := json.Unmarshal(raw, dst); err == nil {
			return nil
		}
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		raw, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, redis.Nil) && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		value, err := load()
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		return data, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(result.([]byte), dst)
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
