package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cyberguard-quiz-service/internal/app"
	"cyberguard-quiz-service/internal/content"
	"cyberguard-quiz-service/internal/domain"
)

func TestCatalogCacheCaches(t *testing.T) {
	loader := &countingCatalog{QuizCatalog: NewStore(sampleContent())}
	cache := NewCatalogCache(loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.ListQuestions(context.Background(), "quiz-1"); err != nil {
			t.Fatalf("list questions: %v", err)
		}
		if _, err := cache.ListQuizzes(context.Background()); err != nil {
			t.Fatalf("list quizzes: %v", err)
		}
	}
	if loader.calls != 2 {
		t.Fatalf("expected one load per key, got %d", loader.calls)
	}
}

func TestCatalogCacheExpires(t *testing.T) {
	loader := &countingCatalog{QuizCatalog: NewStore(sampleContent())}
	cache := NewCatalogCache(loader, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	cache.clock = func() time.Time { return now }

	_, _ = cache.GetQuiz(context.Background(), "quiz-1")
	now = now.Add(2 * time.Minute)
	_, _ = cache.GetQuiz(context.Background(), "quiz-1")
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls)
	}
}

func TestCatalogCacheDoesNotCacheErrors(t *testing.T) {
	loader := &countingCatalog{QuizCatalog: NewStore(sampleContent())}
	cache := NewCatalogCache(loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.GetQuiz(context.Background(), "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
			t.Fatalf("expected ErrQuizNotFound, got %v", err)
		}
	}
	if loader.calls != 2 {
		t.Fatalf("expected errors to bypass the cache, loader calls %d", loader.calls)
	}
}

type countingCatalog struct {
	app.QuizCatalog
	mu    sync.Mutex
	calls int
}

func (c *countingCatalog) count() {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func (c *countingCatalog) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	c.count()
	return c.QuizCatalog.ListQuizzes(ctx)
}

func (c *countingCatalog) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	c.count()
	return c.QuizCatalog.GetQuiz(ctx, quizID)
}

func (c *countingCatalog) ListQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	c.count()
	return c.QuizCatalog.ListQuestions(ctx, quizID)
}

func sampleContent() content.Content {
	return content.Content{
		Quizzes: []content.Quiz{{
			Quiz: domain.Quiz{ID: "quiz-1", Title: "Phishing Basics", Difficulty: domain.DifficultyBeginner, Category: "Phishing"},
			Questions: []domain.Question{{
				ID:     "q1",
				QuizID: "quiz-1",
				Text:   "Where should you report a suspicious email?",
				Options: []domain.AnswerOption{
					{ID: "o1", QuestionID: "q1", Text: "Reply to the sender"},
					{ID: "o2", QuestionID: "q1", Text: "Your security team", Correct: true},
				},
			}},
		}},
		Tips: []domain.Tip{{ID: "t1", Title: "Hover first", Content: "Check links before clicking."}},
	}
}
