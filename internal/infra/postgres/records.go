package postgres

import (
	"cyberguard-quiz-service/internal/domain"
)

// Row types mirror the table columns. Nullable columns scan into pointers and
// every row is validated before it leaves this package.

type quizRow struct {
	ID          string
	Title       string
	Description *string
	Difficulty  *string
	Category    *string
}

func (r quizRow) toDomain() (domain.Quiz, error) {
	quiz := domain.Quiz{
		ID:          r.ID,
		Title:       r.Title,
		Description: deref(r.Description),
		Difficulty:  domain.Difficulty(deref(r.Difficulty)),
		Category:    deref(r.Category),
	}
	return quiz, quiz.Validate()
}

type questionRow struct {
	ID            string
	QuizID        string
	Text          string
	CorrectAnswer *string
	Explanation   *string

	OptionID      *string
	OptionText    *string
	OptionCorrect *bool
}

func (r questionRow) question() domain.Question {
	return domain.Question{
		ID:            r.ID,
		QuizID:        r.QuizID,
		Text:          r.Text,
		CorrectAnswer: deref(r.CorrectAnswer),
		Explanation:   deref(r.Explanation),
		Options:       []domain.AnswerOption{},
	}
}

// option returns the joined option, if the LEFT JOIN matched one.
func (r questionRow) option() (domain.AnswerOption, bool) {
	if r.OptionID == nil {
		return domain.AnswerOption{}, false
	}
	correct := false
	if r.OptionCorrect != nil {
		correct = *r.OptionCorrect
	}
	return domain.AnswerOption{
		ID:         *r.OptionID,
		QuestionID: r.ID,
		Text:       deref(r.OptionText),
		Correct:    correct,
	}, true
}

type tipRow struct {
	ID       string
	Title    string
	Content  string
	Category *string
}

func (r tipRow) toDomain() (domain.Tip, error) {
	tip := domain.Tip{ID: r.ID, Title: r.Title, Content: r.Content, Category: deref(r.Category)}
	return tip, tip.Validate()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
