package services

import (
	"sort"
	"strings"

	"github.com/examhub/exam-service/internal/models"
)

// gradeAnswers scores a submission against the exam's question set.
//
// Option-based questions compare selected option ids against the correct
// set: multiple choice needs exact set equality, single choice and
// true/false need the one correct option. Fill-in-blank compares the text
// answer trimmed and case-insensitively. Essay and matching questions
// cannot be auto-graded; their points still count toward the denominator
// so the score reflects the whole exam. Answers referencing unknown
// question ids are dropped.
//
// The returned score is awarded/available points as a percentage, or 0
// when the exam has no points at all.
func gradeAnswers(questions []*models.Question, answers []models.Answer) ([]models.Answer, float64) {
	byID := make(map[uint]*models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	available := 0
	for _, q := range questions {
		available += q.Points
	}

	graded := make([]models.Answer, 0, len(answers))
	awarded := 0.0
	for _, answer := range answers {
		question, ok := byID[answer.QuestionID]
		if !ok {
			continue
		}

		if question.IsAutoGradable() {
			correct := isAnswerCorrect(question, answer)
			answer.IsCorrect = &correct
			if correct {
				answer.Score = float64(question.Points)
			} else {
				answer.Score = 0
			}
			awarded += answer.Score
		} else {
			// Left for manual grading.
			answer.IsCorrect = nil
			answer.Score = 0
		}
		graded = append(graded, answer)
	}

	if available == 0 {
		return graded, 0
	}
	return graded, awarded / float64(available) * 100
}

func isAnswerCorrect(question *models.Question, answer models.Answer) bool {
	switch question.Type {
	case models.MultipleChoice:
		return equalIDSets(answer.SelectedOptions, question.CorrectOptionIDs())
	case models.SingleChoice, models.TrueFalse:
		correct := question.CorrectOptionIDs()
		return len(answer.SelectedOptions) == 1 && len(correct) == 1 &&
			answer.SelectedOptions[0] == correct[0]
	case models.FillInBlank:
		if answer.TextAnswer == nil || question.CorrectAnswer == nil {
			return false
		}
		given := strings.ToLower(strings.TrimSpace(*answer.TextAnswer))
		expected := strings.ToLower(strings.TrimSpace(*question.CorrectAnswer))
		return given != "" && given == expected
	default:
		return false
	}
}

func equalIDSets(a, b []string) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
