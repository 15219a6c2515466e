package memory

import (
	"context"
	"sync"
	"time"

	"cyberguard-quiz-service/internal/content"
	"cyberguard-quiz-service/internal/domain"
)

// Store is an in-process backend (useful for tests/demos). Quiz content and
// tips come from a content set; profiles and scores are kept in maps.
type Store struct {
	clock func() time.Time

	mu        sync.RWMutex
	quizzes   []domain.Quiz
	questions map[string][]domain.Question
	tips      []domain.Tip
	profiles  map[string]domain.Profile
	scores    []domain.ScoreRecord
}

func NewStore(c content.Content) *Store {
	s := &Store{
		clock:     time.Now,
		questions: make(map[string][]domain.Question),
		profiles:  make(map[string]domain.Profile),
		tips:      append([]domain.Tip(nil), c.Tips...),
	}
	for _, quiz := range c.Quizzes {
		s.quizzes = append(s.quizzes, quiz.Quiz)
		s.questions[quiz.ID] = append([]domain.Question(nil), quiz.Questions...)
	}
	return s
}

func (s *Store) ListQuizzes(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Quiz{}, s.quizzes...), nil
}

func (s *Store) GetQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, quiz := range s.quizzes {
		if quiz.ID == quizID {
			return quiz, nil
		}
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (s *Store) ListQuestions(_ context.Context, quizID string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Question{}, s.questions[quizID]...), nil
}

func (s *Store) ListTips(_ context.Context) ([]domain.Tip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Tip{}, s.tips...), nil
}

func (s *Store) GetProfile(_ context.Context, userID string) (domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return profile, nil
}

func (s *Store) CreateProfile(_ context.Context, profile domain.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profile.ID]; ok {
		return domain.ErrProfileExists
	}
	s.profiles[profile.ID] = profile
	return nil
}

func (s *Store) UpdateProfile(_ context.Context, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.profiles[profile.ID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	current.TotalScore = profile.TotalScore
	current.QuizzesCompleted = profile.QuizzesCompleted
	s.profiles[profile.ID] = current
	return nil
}

func (s *Store) InsertScore(_ context.Context, record domain.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.clock()
	}
	s.scores = append(s.scores, record)
	return nil
}

// Scores returns the score records of one user in insertion order.
func (s *Store) Scores(userID string) []domain.ScoreRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ScoreRecord
	for _, rec := range s.scores {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out
}

// ProfileCount reports how many profiles exist.
func (s *Store) ProfileCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}
