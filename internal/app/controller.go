package app

import (
	"errors"
	"time"

	"cyberguard-quiz-service/internal/domain"
)

// Phase is the controller state.
type Phase string

const (
	PhaseLoading    Phase = "loading"
	PhaseInProgress Phase = "in_progress"
	PhaseComplete   Phase = "complete"
	PhaseNotFound   Phase = "not_found"
)

var errAttemptMismatch = errors.New("attempt does not match quiz content")

// Controller sequences the questions of one quiz attempt and accumulates the score.
type Controller struct {
	attemptID string
	userID    string
	startedAt time.Time

	quiz      domain.Quiz
	questions []domain.Question

	phase     Phase
	index     int
	score     int
	presenter Presenter
}

// NewController starts a fresh attempt. A quiz without questions lands in PhaseNotFound.
func NewController(attemptID, userID string, quiz domain.Quiz, questions []domain.Question, now time.Time) *Controller {
	c := &Controller{
		attemptID: attemptID,
		userID:    userID,
		startedAt: now,
		quiz:      quiz,
		questions: questions,
		phase:     PhaseLoading,
	}
	if len(questions) == 0 {
		c.phase = PhaseNotFound
		return c
	}
	c.phase = PhaseInProgress
	c.presenter.Reset(questions[0], 1)
	return c
}

// RestoreController rebuilds a controller from a stored attempt. It fails when
// the quiz content changed underneath the attempt.
func RestoreController(quiz domain.Quiz, questions []domain.Question, a domain.Attempt) (*Controller, error) {
	if len(questions) == 0 || a.Total != len(questions) || a.Index < 0 || a.Index >= len(questions) {
		return nil, errAttemptMismatch
	}
	c := &Controller{
		attemptID: a.ID,
		userID:    a.UserID,
		startedAt: a.StartedAt,
		quiz:      quiz,
		questions: questions,
		phase:     PhaseInProgress,
		index:     a.Index,
		score:     a.Score,
	}
	if a.Complete {
		c.phase = PhaseComplete
	}
	c.presenter.Reset(questions[a.Index], a.Generation)
	c.presenter.selected = a.Selected
	c.presenter.submitted = a.Submitted
	if a.Correct != nil {
		v := *a.Correct
		c.presenter.correct = &v
	}
	return c, nil
}

func (c *Controller) Phase() Phase                 { return c.phase }
func (c *Controller) Quiz() domain.Quiz            { return c.quiz }
func (c *Controller) Index() int                   { return c.index }
func (c *Controller) Score() int                   { return c.score }
func (c *Controller) Total() int                   { return len(c.questions) }
func (c *Controller) Token() int                   { return c.presenter.Token() }
func (c *Controller) AttemptID() string            { return c.attemptID }
func (c *Controller) Presenter() *Presenter        { return &c.presenter }
func (c *Controller) Questions() []domain.Question { return c.questions }

// Answer applies one verdict. On the last question it completes the attempt.
func (c *Controller) Answer(correct bool) error {
	if c.phase != PhaseInProgress {
		return domain.ErrAttemptComplete
	}
	if correct {
		c.score++
	}
	if c.index < len(c.questions)-1 {
		c.index++
		c.presenter.Reset(c.questions[c.index], c.presenter.Token()+1)
		return nil
	}
	c.phase = PhaseComplete
	return nil
}

// Select forwards a selection to the presenter of the current question.
func (c *Controller) Select(token int, optionID string) error {
	if err := c.check(token); err != nil {
		return err
	}
	return c.presenter.Select(optionID)
}

// Submit reveals the verdict for the current question.
func (c *Controller) Submit(token int) (bool, error) {
	if err := c.check(token); err != nil {
		return false, err
	}
	return c.presenter.Submit()
}

// Advance feeds the presenter's verdict into Answer and reports whether the
// attempt is now complete.
func (c *Controller) Advance(token int) (bool, error) {
	if err := c.check(token); err != nil {
		return false, err
	}
	correct, err := c.presenter.Advance()
	if err != nil {
		return false, err
	}
	if err := c.Answer(correct); err != nil {
		return false, err
	}
	return c.phase == PhaseComplete, nil
}

func (c *Controller) check(token int) error {
	if c.phase != PhaseInProgress {
		return domain.ErrAttemptComplete
	}
	if token != c.presenter.Token() {
		return domain.ErrStaleView
	}
	return nil
}

// Result evaluates the final score. Meaningful once the phase is complete.
func (c *Controller) Result() Result {
	return Evaluate(c.score, len(c.questions))
}

// Snapshot captures the controller for an AttemptStore.
func (c *Controller) Snapshot() domain.Attempt {
	return domain.Attempt{
		ID:         c.attemptID,
		UserID:     c.userID,
		QuizID:     c.quiz.ID,
		Index:      c.index,
		Score:      c.score,
		Total:      len(c.questions),
		Generation: c.presenter.Token(),
		Selected:   c.presenter.Selected(),
		Submitted:  c.presenter.Submitted(),
		Correct:    c.presenter.Verdict(),
		Complete:   c.phase == PhaseComplete,
		StartedAt:  c.startedAt,
	}
}
