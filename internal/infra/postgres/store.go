package postgres

import (
	"context"
	"errors"
	"fmt"

	"cyberguard-quiz-service/internal/domain"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

// DBTX is the subset of pgxpool.Pool the store uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Store is the relational backend: quiz content, profiles, scores and tips.
type Store struct {
	db  DBTX
	log *zap.Logger
}

func NewStore(db DBTX, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log}
}

func (s *Store) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, description, difficulty, category
		FROM quizzes
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := []domain.Quiz{}
	for rows.Next() {
		var r quizRow
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Difficulty, &r.Category); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quiz, err := r.toDomain()
		if err != nil {
			s.log.Warn("skipping malformed quiz row", zap.String("quiz_id", r.ID), zap.Error(err))
			continue
		}
		quizzes = append(quizzes, quiz)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

func (s *Store) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var r quizRow
	err := s.db.QueryRow(ctx, `
		SELECT id, title, description, difficulty, category
		FROM quizzes
		WHERE id = $1`, quizID).Scan(&r.ID, &r.Title, &r.Description, &r.Difficulty, &r.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Quiz{}, domain.ErrQuizNotFound
		}
		return domain.Quiz{}, fmt.Errorf("get quiz: %w", err)
	}
	return r.toDomain()
}

// ListQuestions returns the quiz's questions joined with their answer options,
// in authoring order. Malformed questions are dropped.
func (s *Store) ListQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	rows, err := s.db.Query(ctx, `
		SELECT q.id, q.quiz_id, q.question_text, q.correct_answer, q.explanation,
		       o.id, o.option_text, o.is_correct
		FROM questions q
		LEFT JOIN answer_options o ON o.question_id = q.id
		WHERE q.quiz_id = $1
		ORDER BY q.position, q.id, o.position, o.id`, quizID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var (
		questions []domain.Question
		index     = make(map[string]int)
	)
	for rows.Next() {
		var r questionRow
		if err := rows.Scan(&r.ID, &r.QuizID, &r.Text, &r.CorrectAnswer, &r.Explanation,
			&r.OptionID, &r.OptionText, &r.OptionCorrect); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		i, ok := index[r.ID]
		if !ok {
			i = len(questions)
			index[r.ID] = i
			questions = append(questions, r.question())
		}
		if opt, ok := r.option(); ok {
			questions[i].Options = append(questions[i].Options, opt)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	valid := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			s.log.Warn("skipping malformed question", zap.String("quiz_id", quizID), zap.String("question_id", q.ID), zap.Error(err))
			continue
		}
		valid = append(valid, q)
	}
	return valid, nil
}

func (s *Store) ListTips(ctx context.Context) ([]domain.Tip, error) {
	rows, err := s.db.Query(ctx, `SELECT id, title, content, category FROM tips ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tips: %w", err)
	}
	defer rows.Close()

	tips := []domain.Tip{}
	for rows.Next() {
		var r tipRow
		if err := rows.Scan(&r.ID, &r.Title, &r.Content, &r.Category); err != nil {
			return nil, fmt.Errorf("scan tip: %w", err)
		}
		tip, err := r.toDomain()
		if err != nil {
			s.log.Warn("skipping malformed tip row", zap.String("tip_id", r.ID), zap.Error(err))
			continue
		}
		tips = append(tips, tip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tips: %w", err)
	}
	return tips, nil
}

func (s *Store) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	var (
		p     domain.Profile
		email *string
	)
	err := s.db.QueryRow(ctx, `
		SELECT id, email, total_score, quizzes_completed
		FROM profiles
		WHERE id = $1`, userID).Scan(&p.ID, &email, &p.TotalScore, &p.QuizzesCompleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, domain.ErrProfileNotFound
		}
		return domain.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	p.Email = deref(email)
	return p, nil
}

func (s *Store) CreateProfile(ctx context.Context, profile domain.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO profiles (id, email, total_score, quizzes_completed)
		VALUES ($1, $2, $3, $4)`,
		profile.ID, profile.Email, profile.TotalScore, profile.QuizzesCompleted)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrProfileExists
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (s *Store) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE profiles
		SET total_score = $2, quizzes_completed = $3, updated_at = now()
		WHERE id = $1`,
		profile.ID, profile.TotalScore, profile.QuizzesCompleted)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// InsertScore appends a score record; created_at is assigned by the database.
func (s *Store) InsertScore(ctx context.Context, record domain.ScoreRecord) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_scores (id, user_id, quiz_id, score, total_questions, percentage)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID, record.UserID, record.QuizID, record.Score, record.TotalQuestions, record.Percentage)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

// ScoresForUser lists a user's score records, newest first.
func (s *Store) ScoresForUser(ctx context.Context, userID string) ([]domain.ScoreRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, quiz_id, score, total_questions, percentage, created_at
		FROM user_scores
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var out []domain.ScoreRecord
	for rows.Next() {
		var r domain.ScoreRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.QuizID, &r.Score, &r.TotalQuestions, &r.Percentage, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
