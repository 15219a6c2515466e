package app

import "cyberguard-quiz-service/internal/domain"

// Presenter holds the per-question state: selection, submission and verdict.
// It never resets itself; the controller calls Reset with the next question
// and a fresh token.
type Presenter struct {
	question  domain.Question
	token     int
	selected  string
	submitted bool
	correct   *bool
}

// Reset discards the previous question's state.
func (p *Presenter) Reset(question domain.Question, token int) {
	*p = Presenter{question: question, token: token}
}

func (p *Presenter) Token() int                { return p.token }
func (p *Presenter) Question() domain.Question { return p.question }
func (p *Presenter) Selected() string          { return p.selected }
func (p *Presenter) Submitted() bool           { return p.submitted }

// Verdict returns the correctness of the submitted answer, nil before submission.
func (p *Presenter) Verdict() *bool {
	if p.correct == nil {
		return nil
	}
	v := *p.correct
	return &v
}

// Select replaces the current selection. Only one option is selected at a time.
func (p *Presenter) Select(optionID string) error {
	if p.submitted {
		return domain.ErrAlreadySubmitted
	}
	p.selected = optionID
	return nil
}

// Submit locks the selection and computes the verdict. An option id that does
// not belong to the question counts as incorrect.
func (p *Presenter) Submit() (bool, error) {
	if p.submitted {
		return false, domain.ErrAlreadySubmitted
	}
	if p.selected == "" {
		return false, domain.ErrNoSelection
	}
	opt, _ := p.question.Option(p.selected)
	correct := opt.Correct
	p.correct = &correct
	p.submitted = true
	return correct, nil
}

// Advance hands the verdict upward. It is valid only after Submit.
func (p *Presenter) Advance() (bool, error) {
	if !p.submitted || p.correct == nil {
		return false, domain.ErrNotSubmitted
	}
	return *p.correct, nil
}
