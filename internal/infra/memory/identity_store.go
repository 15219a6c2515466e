package memory

import (
	"context"
	"sync"
	"time"

	"cyberguard-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// IdentityStore keeps session tokens in process memory.
type IdentityStore struct {
	mu       sync.RWMutex
	clock    func() time.Time
	sessions map[string]session
}

type session struct {
	identity  domain.Identity
	expiresAt time.Time
}

func NewIdentityStore() *IdentityStore {
	return &IdentityStore{
		clock:    time.Now,
		sessions: make(map[string]session),
	}
}

// Issue creates a session token for identity valid for ttl.
func (s *IdentityStore) Issue(_ context.Context, identity domain.Identity, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{identity: identity, expiresAt: s.clock().Add(ttl)}
	return token, nil
}

func (s *IdentityStore) CurrentUser(_ context.Context, token string) (domain.Identity, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return domain.Identity{}, domain.ErrNoIdentity
	}
	if !sess.expiresAt.After(s.clock()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return domain.Identity{}, domain.ErrNoIdentity
	}
	return sess.identity, nil
}

func (s *IdentityStore) SignOut(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
