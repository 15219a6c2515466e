package domain

import (
	"fmt"
	"strings"
)

func missing(kind, field string) error {
	return fmt.Errorf("%w: %s.%s is required", ErrInvalidRecord, kind, field)
}

// Validate checks the fields a quiz needs to be listed and played.
func (q Quiz) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return missing("quiz", "id")
	}
	if strings.TrimSpace(q.Title) == "" {
		return missing("quiz", "title")
	}
	return nil
}

// Validate checks a question and each of its options.
func (q Question) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return missing("question", "id")
	}
	if strings.TrimSpace(q.QuizID) == "" {
		return missing("question", "quiz_id")
	}
	if strings.TrimSpace(q.Text) == "" {
		return missing("question", "question_text")
	}
	for _, opt := range q.Options {
		if err := opt.Validate(); err != nil {
			return fmt.Errorf("question %s: %w", q.ID, err)
		}
	}
	return nil
}

// Validate checks the fields of an answer option.
func (o AnswerOption) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return missing("answer_option", "id")
	}
	if strings.TrimSpace(o.Text) == "" {
		return missing("answer_option", "option_text")
	}
	return nil
}

// Validate checks the fields of a tip.
func (t Tip) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return missing("tip", "id")
	}
	if strings.TrimSpace(t.Title) == "" {
		return missing("tip", "title")
	}
	if strings.TrimSpace(t.Content) == "" {
		return missing("tip", "content")
	}
	return nil
}

// Validate checks the identity key of a profile.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return missing("profile", "id")
	}
	return nil
}
