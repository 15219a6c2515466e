package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cyberguard-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// IdentityStore resolves session tokens stored under quiz:session:{token}.
type IdentityStore struct {
	client *redis.Client
}

func NewIdentityStore(client *redis.Client) *IdentityStore {
	return &IdentityStore{client: client}
}

// Issue stores a new session for identity and returns its token.
func (s *IdentityStore) Issue(ctx context.Context, identity domain.Identity, ttl time.Duration) (string, error) {
	data, err := json.Marshal(identity)
	if err != nil {
		return "", err
	}
	token := uuid.NewString()
	if err := s.client.Set(ctx, s.key(token), data, ttl).Err(); err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}
	return token, nil
}

func (s *IdentityStore) CurrentUser(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.ErrNoIdentity
	}
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Identity{}, domain.ErrNoIdentity
		}
		return domain.Identity{}, fmt.Errorf("get session: %w", err)
	}
	var identity domain.Identity
	if err := json.Unmarshal(raw, &identity); err != nil || identity.UserID == "" {
		return domain.Identity{}, domain.ErrNoIdentity
	}
	return identity, nil
}

func (s *IdentityStore) SignOut(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

func (s *IdentityStore) key(token string) string {
	return "quiz:session:" + token
}
