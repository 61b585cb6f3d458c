package quiz

import (
	"math"
	"strings"
)

// answerCorrect applies the per-type correctness test. Choice and text
// types compare trimmed and case-insensitive; truefalse compares the
// exact stringified value; anything else (subjective types) is accepted
// as-is and scored on base points.
func answerCorrect(q *Question, answer string) bool {
	switch q.Type {
	case "mcq", "fillup", "findoutput":
		return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.CorrectAnswer))
	case "truefalse":
		return answer == q.CorrectAnswer
	default:
		return true
	}
}

// awardPoints computes base plus the early-completion bonus:
// floor(saved/allowed * 10) * 0.5, where saved is the unused time.
// The bonus is zero once the allotment is exhausted.
func awardPoints(base, timeTaken, timeAllowed int) float64 {
	if timeAllowed <= 0 {
		return float64(base)
	}
	saved := timeAllowed - timeTaken
	if saved < 0 {
		saved = 0
	}
	bonus := math.Floor(float64(saved)/float64(timeAllowed)*10) * 0.5
	return float64(base) + bonus
}

// ScoreAttempt grades a linear answer sequence against its questions.
// Answers are matched positionally to the quiz's question order; a
// missing or wrong answer earns zero.
func ScoreAttempt(questions []*Question, answers []AnswerInput) (total float64, totalTime int, results []QuestionResult) {
	results = make([]QuestionResult, 0, len(questions))
	for i, q := range questions {
		var ans AnswerInput
		if i < len(answers) {
			ans = answers[i]
		}

		allowed := q.TimeAllowed
		if allowed <= 0 {
			allowed = 30
		}
		taken := ans.TimeTaken
		if taken > allowed {
			taken = allowed
		}

		base := q.Points
		if base <= 0 {
			base = DefaultQuestionPoints
		}

		correct := answerCorrect(q, ans.Answer)
		var points float64
		if correct {
			points = awardPoints(base, taken, allowed)
		}

		total += points
		totalTime += taken
		results = append(results, QuestionResult{
			QuestionID:     q.ID,
			SelectedAnswer: ans.Answer,
			IsCorrect:      correct,
			TimeTaken:      taken,
			Points:         points,
		})
	}
	return total, totalTime, results
}
