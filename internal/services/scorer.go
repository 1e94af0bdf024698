package services

import "github.com/novalabs/nova/internal/models"

// AnswerReview is the per-question line of an attempt result. UserAnswer is
// -1 when the submission did not include an answer for the question.
type AnswerReview struct {
	Question      string `json:"question"`
	UserAnswer    int    `json:"userAnswer"`
	CorrectAnswer int    `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	Explanation   string `json:"explanation"`
}

// AttemptResult is computed per request and never persisted; only the
// experience credited from Score is durable.
type AttemptResult struct {
	Score      int            `json:"score"`
	Total      int            `json:"total"`
	Percentage float64        `json:"percentage"`
	Results    []AnswerReview `json:"results"`
}

// ScoreAttempt grades submitted answers against questions by position.
// A submission shorter than the question list grades the tail as incorrect
// rather than failing. Review rows preserve question order and always carry
// the explanation, right or wrong.
func ScoreAttempt(questions []models.Question, answers []int) (*AttemptResult, error) {
	res := &AttemptResult{Total: len(questions), Results: make([]AnswerReview, 0, len(questions))}
	for i, q := range questions {
		if len(q.Options) < 2 {
			return nil, NewInvalidError("question needs at least two options")
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, NewInvalidError("correct answer index out of range")
		}
		answer := -1
		if i < len(answers) {
			answer = answers[i]
		}
		correct := answer == q.CorrectAnswer
		if correct {
			res.Score++
		}
		res.Results = append(res.Results, AnswerReview{
			Question:      q.Question,
			UserAnswer:    answer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     correct,
			Explanation:   q.Explanation,
		})
	}
	if res.Total > 0 {
		res.Percentage = float64(res.Score) / float64(res.Total) * 100
	}
	return res, nil
}
