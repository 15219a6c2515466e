package app

import (
	"context"

	"cyberguard-quiz-service/internal/domain"
)

// QuizCatalog reads quiz content (from cache/backing store).
type QuizCatalog interface {
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	// ListQuestions returns a quiz's questions joined with their answer options.
	ListQuestions(ctx context.Context, quizID string) ([]domain.Question, error)
}

// ProfileRepository stores per-user cumulative statistics.
// GetProfile returns domain.ErrProfileNotFound when no row exists and
// CreateProfile returns domain.ErrProfileExists on a uniqueness violation.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (domain.Profile, error)
	CreateProfile(ctx context.Context, profile domain.Profile) error
	UpdateProfile(ctx context.Context, profile domain.Profile) error
}

// ScoreRepository appends score records.
type ScoreRepository interface {
	InsertScore(ctx context.Context, record domain.ScoreRecord) error
}

// TipRepository lists tips.
type TipRepository interface {
	ListTips(ctx context.Context) ([]domain.Tip, error)
}

// IdentityProvider resolves session tokens to identities.
type IdentityProvider interface {
	CurrentUser(ctx context.Context, token string) (domain.Identity, error)
	SignOut(ctx context.Context, token string) error
}

// AttemptStore abstracts how in-progress attempts are stored (in-memory, Redis, etc).
type AttemptStore interface {
	Get(ctx context.Context, userID, quizID string) (domain.Attempt, error)
	Save(ctx context.Context, attempt domain.Attempt) error
	Delete(ctx context.Context, userID, quizID string) error
}

// Backend bundles the collaborators every use case needs. It is built once at
// startup and passed explicitly to services.
type Backend struct {
	Quizzes  QuizCatalog
	Profiles ProfileRepository
	Scores   ScoreRepository
	Tips     TipRepository
	Identity IdentityProvider
}
