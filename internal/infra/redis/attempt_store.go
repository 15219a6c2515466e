package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cyberguard-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// AttemptStore keeps in-progress attempts in Redis so any instance can serve
// the next request of an attempt. Entries expire after ttl of inactivity.
type AttemptStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAttemptStore(client *redis.Client, ttl time.Duration) *AttemptStore {
	return &AttemptStore{client: client, ttl: ttl}
}

func (s *AttemptStore) Get(ctx context.Context, userID, quizID string) (domain.Attempt, error) {
	raw, err := s.client.Get(ctx, s.key(userID, quizID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Attempt{}, domain.ErrAttemptNotFound
		}
		return domain.Attempt{}, fmt.Errorf("get attempt: %w", err)
	}
	var attempt domain.Attempt
	if err := json.Unmarshal(raw, &attempt); err != nil {
		return domain.Attempt{}, fmt.Errorf("decode attempt: %w", err)
	}
	return attempt, nil
}

func (s *AttemptStore) Save(ctx context.Context, attempt domain.Attempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("encode attempt: %w", err)
	}
	if err := s.client.Set(ctx, s.key(attempt.UserID, attempt.QuizID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

func (s *AttemptStore) Delete(ctx context.Context, userID, quizID string) error {
	return s.client.Del(ctx, s.key(userID, quizID)).Err()
}

func (s *AttemptStore) key(userID, quizID string) string {
	return "quiz:attempt:" + userID + ":" + quizID
}
