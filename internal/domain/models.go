package domain

import "time"

// Difficulty is the enumerated quiz difficulty shown on catalog cards.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Quiz is a catalog entry. Its questions are loaded separately.
type Quiz struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Difficulty  Difficulty `json:"difficulty" yaml:"difficulty"`
	Category    string     `json:"category" yaml:"category"`
}

// AnswerOption is one possible answer for a question.
type AnswerOption struct {
	ID         string `json:"id" yaml:"id"`
	QuestionID string `json:"questionId" yaml:"-"`
	Text       string `json:"text" yaml:"text"`
	Correct    bool   `json:"correct" yaml:"correct"`
}

// Question models an MCQ question with exactly one correct option (assumed, not enforced).
type Question struct {
	ID            string         `json:"id" yaml:"id"`
	QuizID        string         `json:"quizId" yaml:"-"`
	Text          string         `json:"text" yaml:"text"`
	CorrectAnswer string         `json:"correctAnswer" yaml:"correct_answer"`
	Explanation   string         `json:"explanation" yaml:"explanation"`
	Options       []AnswerOption `json:"options" yaml:"options"`
}

// Option returns the option with the given id.
func (q Question) Option(id string) (AnswerOption, bool) {
	for _, opt := range q.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return AnswerOption{}, false
}

// Profile holds a user's cumulative statistics.
type Profile struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	TotalScore       int    `json:"totalScore"`
	QuizzesCompleted int    `json:"quizzesCompleted"`
}

// ScoreRecord is the immutable fact written once per completed attempt.
type ScoreRecord struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	QuizID         string    `json:"quizId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     int       `json:"percentage"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Tip is a piece of supplementary guidance shown in the tip of the day modal.
type Tip struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Content  string `json:"content" yaml:"content"`
	Category string `json:"category" yaml:"category"`
}

// Identity is the authenticated user behind a session token.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Attempt is the persisted state of one user's pass through one quiz.
// Generation increases every time the question presenter is reset; requests
// carrying an older generation are stale.
type Attempt struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	QuizID     string    `json:"quizId"`
	Index      int       `json:"index"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Generation int       `json:"generation"`
	Selected   string    `json:"selected,omitempty"`
	Submitted  bool      `json:"submitted"`
	Correct    *bool     `json:"correct,omitempty"`
	Complete   bool      `json:"complete"`
	StartedAt  time.Time `json:"startedAt"`
}
