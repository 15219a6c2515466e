package app

import (
	"context"
	"errors"
	"time"

	"cyberguard-quiz-service/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultWriteTimeout = 10 * time.Second

// QuizService contains the quiz-taking use cases.
type QuizService struct {
	backend  Backend
	attempts AttemptStore
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
	locks    keyedMutex

	writeTimeout time.Duration
}

func NewQuizService(backend Backend, attempts AttemptStore, log *zap.Logger) *QuizService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuizService{
		backend:      backend,
		attempts:     attempts,
		log:          log,
		now:          time.Now,
		newID:        uuid.NewString,
		writeTimeout: defaultWriteTimeout,
	}
}

// WithClock is test-only for deterministic timestamps and ids.
func (s *QuizService) WithClock(now func() time.Time, newID func() string) *QuizService {
	s.now = now
	s.newID = newID
	return s
}

// Start begins a fresh attempt, discarding any previous one for the quiz.
func (s *QuizService) Start(ctx context.Context, who domain.Identity, quizID string) (View, error) {
	unlock := s.locks.Lock(attemptKey(who.UserID, quizID))
	defer unlock()

	quiz, questions, err := s.load(ctx, quizID)
	if err != nil {
		return View{}, err
	}
	return s.startLocked(ctx, who, quiz, questions)
}

// Current returns the user's attempt for the quiz, starting one if none exists
// or the stored one no longer matches the quiz content.
func (s *QuizService) Current(ctx context.Context, who domain.Identity, quizID string) (View, error) {
	unlock := s.locks.Lock(attemptKey(who.UserID, quizID))
	defer unlock()

	quiz, questions, err := s.load(ctx, quizID)
	if err != nil {
		return View{}, err
	}
	c, err := s.restore(ctx, who, quiz, questions)
	if err != nil {
		return s.startLocked(ctx, who, quiz, questions)
	}
	return c.View(), nil
}

// Select changes the selection on the current question.
func (s *QuizService) Select(ctx context.Context, who domain.Identity, quizID string, token int, optionID string) (View, error) {
	return s.mutate(ctx, who, quizID, func(c *Controller) (bool, error) {
		return false, c.Select(token, optionID)
	})
}

// Submit selects optionID (when given) and submits the answer.
func (s *QuizService) Submit(ctx context.Context, who domain.Identity, quizID string, token int, optionID string) (View, error) {
	return s.mutate(ctx, who, quizID, func(c *Controller) (bool, error) {
		if optionID != "" {
			if err := c.Select(token, optionID); err != nil {
				return false, err
			}
		}
		_, err := c.Submit(token)
		return false, err
	})
}

// Next advances past a submitted question. Advancing past the last question
// completes the attempt and records the score.
func (s *QuizService) Next(ctx context.Context, who domain.Identity, quizID string, token int) (View, error) {
	return s.mutate(ctx, who, quizID, func(c *Controller) (bool, error) {
		return c.Advance(token)
	})
}

func (s *QuizService) mutate(ctx context.Context, who domain.Identity, quizID string, fn func(c *Controller) (bool, error)) (View, error) {
	unlock := s.locks.Lock(attemptKey(who.UserID, quizID))
	defer unlock()

	quiz, questions, err := s.load(ctx, quizID)
	if err != nil {
		return View{}, err
	}
	if len(questions) == 0 {
		return NotFoundView(quiz), nil
	}

	c, err := s.restore(ctx, who, quiz, questions)
	if err != nil {
		// The page that sent this request refers to an attempt that is gone.
		view, startErr := s.startLocked(ctx, who, quiz, questions)
		if startErr != nil {
			return View{}, startErr
		}
		return view, domain.ErrStaleView
	}

	completed, err := fn(c)
	if err != nil {
		return c.View(), err
	}

	if err := s.attempts.Save(ctx, c.Snapshot()); err != nil {
		return View{}, err
	}
	if completed {
		s.complete(ctx, who, c)
	}
	return c.View(), nil
}

func (s *QuizService) startLocked(ctx context.Context, who domain.Identity, quiz domain.Quiz, questions []domain.Question) (View, error) {
	if len(questions) == 0 {
		if err := s.attempts.Delete(ctx, who.UserID, quiz.ID); err != nil {
			s.log.Warn("drop attempt failed", zap.String("user_id", who.UserID), zap.String("quiz_id", quiz.ID), zap.Error(err))
		}
		return NotFoundView(quiz), nil
	}
	c := NewController(s.newID(), who.UserID, quiz, questions, s.now())
	if err := s.attempts.Save(ctx, c.Snapshot()); err != nil {
		return View{}, err
	}
	return c.View(), nil
}

func (s *QuizService) restore(ctx context.Context, who domain.Identity, quiz domain.Quiz, questions []domain.Question) (*Controller, error) {
	attempt, err := s.attempts.Get(ctx, who.UserID, quiz.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrAttemptNotFound) {
			s.log.Warn("load attempt failed", zap.String("user_id", who.UserID), zap.String("quiz_id", quiz.ID), zap.Error(err))
		}
		return nil, err
	}
	return RestoreController(quiz, questions, attempt)
}

// load fetches the quiz and its questions. Read failures degrade to an empty
// question set (rendered as not found); a cancelled request discards the result.
func (s *QuizService) load(ctx context.Context, quizID string) (domain.Quiz, []domain.Question, error) {
	quiz, err := s.backend.Quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Quiz{}, nil, ctxErr
		}
		if !errors.Is(err, domain.ErrQuizNotFound) {
			s.log.Error("fetch quiz failed", zap.String("quiz_id", quizID), zap.Error(err))
		}
		return domain.Quiz{ID: quizID}, nil, nil
	}

	questions, err := s.backend.Quizzes.ListQuestions(ctx, quizID)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.Quiz{}, nil, ctxErr
	}
	if err != nil {
		s.log.Error("fetch questions failed", zap.String("quiz_id", quizID), zap.Error(err))
		return quiz, nil, nil
	}
	return quiz, questions, nil
}

// complete persists the score record and then bumps the profile counters.
// The writes are sequential and not transactional; a failure is logged and
// leaves the profile behind the score records.
func (s *QuizService) complete(ctx context.Context, who domain.Identity, c *Controller) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()

	result := c.Result()
	log := s.log.With(zap.String("user_id", who.UserID), zap.String("quiz_id", c.Quiz().ID), zap.String("attempt_id", c.AttemptID()))

	record := domain.ScoreRecord{
		ID:             s.newID(),
		UserID:         who.UserID,
		QuizID:         c.Quiz().ID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Percentage:     result.Percentage,
		CreatedAt:      s.now(),
	}
	if err := s.backend.Scores.InsertScore(ctx, record); err != nil {
		log.Error("save score failed", zap.Error(err))
		return
	}

	profile, err := s.backend.Profiles.GetProfile(ctx, who.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			log.Warn("no profile to update after quiz completion")
			return
		}
		log.Error("load profile failed", zap.Error(err))
		return
	}
	profile.TotalScore += result.Score
	profile.QuizzesCompleted++
	if err := s.backend.Profiles.UpdateProfile(ctx, profile); err != nil {
		log.Error("update profile failed", zap.Error(err))
		return
	}
	log.Info("quiz completed", zap.Int("score", result.Score), zap.Int("total", result.TotalQuestions), zap.Int("percentage", result.Percentage))
}

func attemptKey(userID, quizID string) string {
	return userID + "/" + quizID
}
