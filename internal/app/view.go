package app

import "cyberguard-quiz-service/internal/domain"

// Option states revealed after submission.
const (
	OptionNeutral = "neutral"
	OptionCorrect = "correct"
	OptionWrong   = "wrong"
)

// OptionView is one answer option as rendered. State stays empty until the
// answer is submitted so correctness never reaches the client early.
type OptionView struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
	State    string `json:"state,omitempty"`
}

// QuestionView is the render model of the current question.
type QuestionView struct {
	Number      int          `json:"number"`
	Total       int          `json:"total"`
	Progress    int          `json:"progress"`
	Text        string       `json:"text"`
	Explanation string       `json:"explanation,omitempty"`
	Options     []OptionView `json:"options"`
	Selected    string       `json:"selected,omitempty"`
	Submitted   bool         `json:"submitted"`
	Correct     *bool        `json:"correct,omitempty"`
	Last        bool         `json:"last"`
}

// View is what both transports render for an attempt.
type View struct {
	Phase     Phase         `json:"phase"`
	Quiz      domain.Quiz   `json:"quiz"`
	AttemptID string        `json:"attemptId,omitempty"`
	Token     int           `json:"token"`
	Question  *QuestionView `json:"question,omitempty"`
	Result    *Result       `json:"result,omitempty"`
}

// NotFoundView is the terminal view for unknown or empty quizzes.
func NotFoundView(quiz domain.Quiz) View {
	return View{Phase: PhaseNotFound, Quiz: quiz}
}

// View renders the controller's current state.
func (c *Controller) View() View {
	v := View{
		Phase:     c.phase,
		Quiz:      c.quiz,
		AttemptID: c.attemptID,
		Token:     c.presenter.Token(),
	}
	switch c.phase {
	case PhaseComplete:
		r := c.Result()
		v.Result = &r
	case PhaseInProgress:
		v.Question = c.questionView()
	}
	return v
}

func (c *Controller) questionView() *QuestionView {
	p := &c.presenter
	q := p.Question()
	total := len(c.questions)
	qv := &QuestionView{
		Number:    c.index + 1,
		Total:     total,
		Progress:  (c.index + 1) * 100 / total,
		Text:      q.Text,
		Selected:  p.Selected(),
		Submitted: p.Submitted(),
		Correct:   p.Verdict(),
		Last:      c.index == total-1,
		Options:   make([]OptionView, 0, len(q.Options)),
	}
	if p.Submitted() {
		qv.Explanation = q.Explanation
	}
	for _, opt := range q.Options {
		ov := OptionView{ID: opt.ID, Text: opt.Text, Selected: opt.ID == p.Selected()}
		if p.Submitted() {
			switch {
			case opt.Correct:
				ov.State = OptionCorrect
			case ov.Selected:
				ov.State = OptionWrong
			default:
				ov.State = OptionNeutral
			}
		}
		qv.Options = append(qv.Options, ov)
	}
	return qv
}
