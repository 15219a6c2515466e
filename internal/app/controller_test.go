package app

import (
	"fmt"
	"testing"
	"time"

	"cyberguard-quiz-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuestions(n int) []domain.Question {
	questions := make([]domain.Question, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("q%d", i)
		questions = append(questions, domain.Question{
			ID:            id,
			QuizID:        "quiz-1",
			Text:          "Question " + id,
			CorrectAnswer: "right",
			Explanation:   "Because.",
			Options: []domain.AnswerOption{
				{ID: id + "-right", QuestionID: id, Text: "right", Correct: true},
				{ID: id + "-wrong", QuestionID: id, Text: "wrong"},
			},
		})
	}
	return questions
}

var testQuiz = domain.Quiz{ID: "quiz-1", Title: "Phishing Basics"}

func answer(t *testing.T, c *Controller, optionID string) bool {
	t.Helper()
	token := c.Token()
	require.NoError(t, c.Select(token, optionID))
	_, err := c.Submit(token)
	require.NoError(t, err)
	completed, err := c.Advance(token)
	require.NoError(t, err)
	return completed
}

func TestPresenterLifecycle(t *testing.T) {
	var p Presenter
	q := testQuestions(1)[0]
	p.Reset(q, 7)

	_, err := p.Submit()
	assert.ErrorIs(t, err, domain.ErrNoSelection)
	_, err = p.Advance()
	assert.ErrorIs(t, err, domain.ErrNotSubmitted)

	require.NoError(t, p.Select("q1-wrong"))
	require.NoError(t, p.Select("q1-right"))
	assert.Equal(t, "q1-right", p.Selected())
	assert.Nil(t, p.Verdict())

	correct, err := p.Submit()
	require.NoError(t, err)
	assert.True(t, correct)
	require.NotNil(t, p.Verdict())
	assert.True(t, *p.Verdict())

	assert.ErrorIs(t, p.Select("q1-wrong"), domain.ErrAlreadySubmitted)
	_, err = p.Submit()
	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)

	correct, err = p.Advance()
	require.NoError(t, err)
	assert.True(t, correct)

	p.Reset(q, 8)
	assert.Equal(t, 8, p.Token())
	assert.Empty(t, p.Selected())
	assert.False(t, p.Submitted())
	assert.Nil(t, p.Verdict())
}

func TestPresenterUnknownOptionIsIncorrect(t *testing.T) {
	var p Presenter
	p.Reset(testQuestions(1)[0], 1)
	require.NoError(t, p.Select("not-an-option"))
	correct, err := p.Submit()
	require.NoError(t, err)
	assert.False(t, correct)
}

func TestControllerNeedsExactlyNAnswers(t *testing.T) {
	for n := 1; n <= 5; n++ {
		c := NewController("a1", "u1", testQuiz, testQuestions(n), time.Now())
		require.Equal(t, PhaseInProgress, c.Phase())
		for i := 0; i < n; i++ {
			require.Equal(t, i, c.Index())
			completed := answer(t, c, fmt.Sprintf("q%d-right", i+1))
			assert.Equal(t, i == n-1, completed)
		}
		assert.Equal(t, PhaseComplete, c.Phase())
		assert.Equal(t, n, c.Score())
		assert.ErrorIs(t, c.Answer(true), domain.ErrAttemptComplete)
	}
}

func TestControllerScoresCorrectAnswers(t *testing.T) {
	c := NewController("a1", "u1", testQuiz, testQuestions(3), time.Now())
	answer(t, c, "q1-right")
	answer(t, c, "q2-right")
	require.True(t, answer(t, c, "q3-wrong"))

	r := c.Result()
	assert.Equal(t, 2, r.Score)
	assert.Equal(t, 3, r.TotalQuestions)
	assert.Equal(t, 67, r.Percentage)
	assert.False(t, r.Passed)
}

func TestControllerRejectsStaleToken(t *testing.T) {
	c := NewController("a1", "u1", testQuiz, testQuestions(2), time.Now())
	stale := c.Token()
	answer(t, c, "q1-right")

	assert.ErrorIs(t, c.Select(stale, "q2-right"), domain.ErrStaleView)
	_, err := c.Submit(stale)
	assert.ErrorIs(t, err, domain.ErrStaleView)
	_, err = c.Advance(stale)
	assert.ErrorIs(t, err, domain.ErrStaleView)

	assert.Equal(t, 1, c.Index())
	assert.Equal(t, 1, c.Score())
	assert.Empty(t, c.Presenter().Selected())
}

func TestControllerWithoutQuestionsIsNotFound(t *testing.T) {
	c := NewController("a1", "u1", testQuiz, nil, time.Now())
	assert.Equal(t, PhaseNotFound, c.Phase())
	assert.ErrorIs(t, c.Select(0, "x"), domain.ErrAttemptComplete)
}

func TestControllerSnapshotRoundTrip(t *testing.T) {
	questions := testQuestions(3)
	c := NewController("a1", "u1", testQuiz, questions, time.Unix(1_700_000_000, 0))
	answer(t, c, "q1-right")
	require.NoError(t, c.Select(c.Token(), "q2-wrong"))
	_, err := c.Submit(c.Token())
	require.NoError(t, err)

	restored, err := RestoreController(testQuiz, questions, c.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, c.View(), restored.View())
	assert.Equal(t, c.Snapshot(), restored.Snapshot())

	_, err = RestoreController(testQuiz, questions[:2], c.Snapshot())
	assert.Error(t, err)
}

func TestViewHidesCorrectnessUntilSubmitted(t *testing.T) {
	c := NewController("a1", "u1", testQuiz, testQuestions(2), time.Now())
	require.NoError(t, c.Select(c.Token(), "q1-wrong"))

	v := c.View()
	require.NotNil(t, v.Question)
	assert.Equal(t, 1, v.Question.Number)
	assert.Equal(t, 50, v.Question.Progress)
	assert.Empty(t, v.Question.Explanation)
	for _, opt := range v.Question.Options {
		assert.Empty(t, opt.State)
	}

	_, err := c.Submit(c.Token())
	require.NoError(t, err)
	v = c.View()
	assert.Equal(t, "Because.", v.Question.Explanation)
	assert.Equal(t, OptionCorrect, v.Question.Options[0].State)
	assert.Equal(t, OptionWrong, v.Question.Options[1].State)
	require.NotNil(t, v.Question.Correct)
	assert.False(t, *v.Question.Correct)
	assert.False(t, v.Question.Last)
}
