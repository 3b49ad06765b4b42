package service

import (
	"math"
	"time"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// startOfDay zeroes the time-of-day component in the value's location.
func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// endOfDay moves the value to the last nanosecond of its day.
func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// PriorityForDueDate derives the assignment priority from its due date.
// Days remaining are counted from the start of "now"'s day to the end of the
// due date's day, so a deadline later today is day 0.
func PriorityForDueDate(now, dueDate time.Time) string {
	remaining := endOfDay(dueDate).Sub(startOfDay(now))
	days := int(math.Floor(remaining.Hours() / 24))

	switch {
	case days <= 2:
		return models.PriorityHigh
	case days <= 5:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// Overdue reports whether "now" is strictly past the end of the due date's day.
func Overdue(now, dueDate time.Time) bool {
	return now.After(endOfDay(dueDate))
}

// LetterGradeForScore maps a numeric score to a letter grade.
func LetterGradeForScore(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// RubricTotal computes the weighted average of the scored rubric criteria,
// rounded to the nearest integer. Criteria without a score are excluded from
// both numerator and denominator; an all-unscored rubric yields 0.
func RubricTotal(scores []models.RubricScore) int {
	var weighted float64
	var totalWeight int

	for _, criterion := range scores {
		if criterion.Score == nil {
			continue
		}
		weighted += float64(*criterion.Score) * float64(criterion.Weight) / 100
		totalWeight += criterion.Weight
	}

	if totalWeight == 0 {
		return 0
	}

	return int(math.Round(weighted / float64(totalWeight) * 100))
}
