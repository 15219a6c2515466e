package app

import "math"

// PassThreshold is the minimum percentage that counts as passing.
const PassThreshold = 70

// Band is the qualitative tier of a result.
type Band string

const (
	BandPerfect        Band = "perfect"
	BandExcellent      Band = "excellent"
	BandGood           Band = "good"
	BandNotBad         Band = "not bad"
	BandKeepPracticing Band = "keep practicing"
)

var bandMessages = map[Band]string{
	BandPerfect:        "Perfect Score! Outstanding performance!",
	BandExcellent:      "Excellent! You have strong cybersecurity knowledge.",
	BandGood:           "Good job! You passed the challenge.",
	BandNotBad:         "Not bad, but keep learning to improve.",
	BandKeepPracticing: "Keep practicing to strengthen your cybersecurity skills.",
}

// Result is the derived view of a finished attempt.
type Result struct {
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	Incorrect      int    `json:"incorrect"`
	Percentage     int    `json:"percentage"`
	Passed         bool   `json:"passed"`
	Band           Band   `json:"band"`
	Message        string `json:"message"`
}

// Percentage rounds score/total to a whole percent, half away from zero.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// BandFor evaluates the thresholds in descending order; first match wins.
func BandFor(percentage int) Band {
	switch {
	case percentage >= 100:
		return BandPerfect
	case percentage >= 80:
		return BandExcellent
	case percentage >= PassThreshold:
		return BandGood
	case percentage >= 50:
		return BandNotBad
	default:
		return BandKeepPracticing
	}
}

// Evaluate is a pure function of the final score and question count.
func Evaluate(score, total int) Result {
	pct := Percentage(score, total)
	band := BandFor(pct)
	return Result{
		Score:          score,
		TotalQuestions: total,
		Incorrect:      total - score,
		Percentage:     pct,
		Passed:         pct >= PassThreshold,
		Band:           band,
		Message:        bandMessages[band],
	}
}
