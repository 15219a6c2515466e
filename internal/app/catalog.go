package app

import (
	"context"
	"errors"

	"cyberguard-quiz-service/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stats are the profile counters shown on the dashboard.
type Stats struct {
	TotalScore       int `json:"totalScore"`
	QuizzesCompleted int `json:"quizzesCompleted"`
}

// Dashboard is the catalog view model.
type Dashboard struct {
	Identity domain.Identity `json:"identity"`
	Quizzes  []domain.Quiz   `json:"quizzes"`
	Stats    Stats           `json:"stats"`
}

// CatalogService backs the dashboard.
type CatalogService struct {
	backend Backend
	log     *zap.Logger
}

func NewCatalogService(backend Backend, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{backend: backend, log: log}
}

// Dashboard loads the quiz list and the user's stats concurrently. Each half
// degrades on its own: failures are logged and leave an empty list or zero
// stats. Only a cancelled request returns an error.
func (s *CatalogService) Dashboard(ctx context.Context, who domain.Identity) (Dashboard, error) {
	d := Dashboard{Identity: who, Quizzes: []domain.Quiz{}}

	var g errgroup.Group
	g.Go(func() error {
		quizzes, err := s.backend.Quizzes.ListQuizzes(ctx)
		if err != nil {
			s.log.Error("fetch quizzes failed", zap.Error(err))
			return nil
		}
		d.Quizzes = quizzes
		return nil
	})
	g.Go(func() error {
		profile, err := s.EnsureProfile(ctx, who)
		if err != nil {
			s.log.Error("fetch profile failed", zap.String("user_id", who.UserID), zap.Error(err))
			return nil
		}
		d.Stats = Stats{TotalScore: profile.TotalScore, QuizzesCompleted: profile.QuizzesCompleted}
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

// EnsureProfile returns the user's profile, creating a zeroed one on first
// visit. Losing a creation race to another request is not an error.
func (s *CatalogService) EnsureProfile(ctx context.Context, who domain.Identity) (domain.Profile, error) {
	profile, err := s.backend.Profiles.GetProfile(ctx, who.UserID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return domain.Profile{}, err
	}

	profile = domain.Profile{ID: who.UserID, Email: who.Email}
	if err := s.backend.Profiles.CreateProfile(ctx, profile); err != nil && !errors.Is(err, domain.ErrProfileExists) {
		return domain.Profile{}, err
	}
	return profile, nil
}
