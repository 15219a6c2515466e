// Package content reads quiz and tip definitions from YAML. It feeds the seed
// command and the in-memory backend.
package content

import (
	"fmt"
	"os"

	"cyberguard-quiz-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// Quiz is a catalog entry together with its questions.
type Quiz struct {
	domain.Quiz `yaml:",inline"`
	Questions   []domain.Question `yaml:"questions"`
}

// Content is the whole administrative data set.
type Content struct {
	Quizzes []Quiz       `yaml:"quizzes"`
	Tips    []domain.Tip `yaml:"tips"`
}

// Load reads a content file from path.
func Load(path string) (Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, err
	}
	return Parse(data)
}

// Parse decodes YAML, links children to their parents and validates every record.
func Parse(data []byte) (Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Content{}, fmt.Errorf("decode content: %w", err)
	}

	seen := make(map[string]struct{})
	for i := range c.Quizzes {
		quiz := &c.Quizzes[i]
		if err := quiz.Validate(); err != nil {
			return Content{}, err
		}
		if _, dup := seen[quiz.ID]; dup {
			return Content{}, fmt.Errorf("%w: duplicate quiz id %q", domain.ErrInvalidRecord, quiz.ID)
		}
		seen[quiz.ID] = struct{}{}

		for j := range quiz.Questions {
			q := &quiz.Questions[j]
			q.QuizID = quiz.ID
			for k := range q.Options {
				q.Options[k].QuestionID = q.ID
			}
			if err := q.Validate(); err != nil {
				return Content{}, err
			}
		}
	}
	for _, tip := range c.Tips {
		if err := tip.Validate(); err != nil {
			return Content{}, err
		}
	}
	return c, nil
}
