package postgres

import (
	"context"
	"fmt"

	"cyberguard-quiz-service/internal/content"
	"github.com/uptrace/bun"
)

type quizModel struct {
	bun.BaseModel `bun:"table:quizzes"`

	ID          string `bun:"id,pk"`
	Title       string `bun:"title"`
	Description string `bun:"description"`
	Difficulty  string `bun:"difficulty,nullzero"`
	Category    string `bun:"category"`
}

type questionModel struct {
	bun.BaseModel `bun:"table:questions"`

	ID            string `bun:"id,pk"`
	QuizID        string `bun:"quiz_id"`
	QuestionText  string `bun:"question_text"`
	CorrectAnswer string `bun:"correct_answer"`
	Explanation   string `bun:"explanation"`
	Position      int    `bun:"position"`
}

type answerOptionModel struct {
	bun.BaseModel `bun:"table:answer_options"`

	ID         string `bun:"id,pk"`
	QuestionID string `bun:"question_id"`
	OptionText string `bun:"option_text"`
	IsCorrect  bool   `bun:"is_correct"`
	Position   int    `bun:"position"`
}

type tipModel struct {
	bun.BaseModel `bun:"table:tips"`

	ID       string `bun:"id,pk"`
	Title    string `bun:"title"`
	Content  string `bun:"content"`
	Category string `bun:"category"`
}

// SeedStats counts the rows written by Seed.
type SeedStats struct {
	Quizzes   int
	Questions int
	Options   int
	Tips      int
}

// Seeder upserts administrative content (quizzes, questions, options, tips).
type Seeder struct {
	db *bun.DB
}

func NewSeeder(db *bun.DB) *Seeder {
	return &Seeder{db: db}
}

// Seed writes c in a single transaction. Existing rows with the same ids are
// overwritten so a content file can be re-applied.
func (s *Seeder) Seed(ctx context.Context, c content.Content) (SeedStats, error) {
	var (
		quizzes   []quizModel
		questions []questionModel
		options   []answerOptionModel
		tips      []tipModel
	)
	for _, quiz := range c.Quizzes {
		quizzes = append(quizzes, quizModel{
			ID:          quiz.ID,
			Title:       quiz.Title,
			Description: quiz.Description,
			Difficulty:  string(quiz.Difficulty),
			Category:    quiz.Category,
		})
		for qi, q := range quiz.Questions {
			questions = append(questions, questionModel{
				ID:            q.ID,
				QuizID:        quiz.ID,
				QuestionText:  q.Text,
				CorrectAnswer: q.CorrectAnswer,
				Explanation:   q.Explanation,
				Position:      qi,
			})
			for oi, opt := range q.Options {
				options = append(options, answerOptionModel{
					ID:         opt.ID,
					QuestionID: q.ID,
					OptionText: opt.Text,
					IsCorrect:  opt.Correct,
					Position:   oi,
				})
			}
		}
	}
	for _, tip := range c.Tips {
		tips = append(tips, tipModel{ID: tip.ID, Title: tip.Title, Content: tip.Content, Category: tip.Category})
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if len(quizzes) > 0 {
			if _, err := tx.NewInsert().Model(&quizzes).
				On("CONFLICT (id) DO UPDATE").
				Set("title = EXCLUDED.title").
				Set("description = EXCLUDED.description").
				Set("difficulty = EXCLUDED.difficulty").
				Set("category = EXCLUDED.category").
				Exec(ctx); err != nil {
				return fmt.Errorf("upsert quizzes: %w", err)
			}
		}
		if len(questions) > 0 {
			if _, err := tx.NewInsert().Model(&questions).
				On("CONFLICT (id) DO UPDATE").
				Set("quiz_id = EXCLUDED.quiz_id").
				Set("question_text = EXCLUDED.question_text").
				Set("correct_answer = EXCLUDED.correct_answer").
				Set("explanation = EXCLUDED.explanation").
				Set("position = EXCLUDED.position").
				Exec(ctx); err != nil {
				return fmt.Errorf("upsert questions: %w", err)
			}
		}
		if len(options) > 0 {
			if _, err := tx.NewInsert().Model(&options).
				On("CONFLICT (id) DO UPDATE").
				Set("question_id = EXCLUDED.question_id").
				Set("option_text = EXCLUDED.option_text").
				Set("is_correct = EXCLUDED.is_correct").
				Set("position = EXCLUDED.position").
				Exec(ctx); err != nil {
				return fmt.Errorf("upsert answer options: %w", err)
			}
		}
		if len(tips) > 0 {
			if _, err := tx.NewInsert().Model(&tips).
				On("CONFLICT (id) DO UPDATE").
				Set("title = EXCLUDED.title").
				Set("content = EXCLUDED.content").
				Set("category = EXCLUDED.category").
				Exec(ctx); err != nil {
				return fmt.Errorf("upsert tips: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return SeedStats{}, err
	}
	return SeedStats{Quizzes: len(quizzes), Questions: len(questions), Options: len(options), Tips: len(tips)}, nil
}
