package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aula-go-api/internal/models"
)

func TestPriorityForDueDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	cases := []struct {
		name     string
		dueDate  time.Time
		expected string
	}{
		{"due earlier the same day", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), models.PriorityHigh},
		{"due tomorrow", now.AddDate(0, 0, 1), models.PriorityHigh},
		{"due in two days", now.AddDate(0, 0, 2), models.PriorityHigh},
		{"due in three days", now.AddDate(0, 0, 3), models.PriorityMedium},
		{"due in five days", now.AddDate(0, 0, 5), models.PriorityMedium},
		{"due in six days", now.AddDate(0, 0, 6), models.PriorityLow},
		{"due next month", now.AddDate(0, 1, 0), models.PriorityLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, PriorityForDueDate(now, tc.dueDate))
		})
	}
}

func TestOverdue(t *testing.T) {
	dueDate := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	require.False(t, Overdue(time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC), dueDate),
		"same day after the due time still counts as on time")
	require.True(t, Overdue(time.Date(2026, 3, 11, 0, 0, 1, 0, time.UTC), dueDate))
}

func TestLetterGradeForScore(t *testing.T) {
	cases := []struct {
		score    float64
		expected string
	}{
		{95, "A"}, {90, "A"}, {89, "B"}, {85, "B"}, {80, "B"},
		{79, "C"}, {72, "C"}, {70, "C"}, {69, "D"}, {65, "D"},
		{60, "D"}, {59, "F"}, {40, "F"}, {0, "F"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.expected, LetterGradeForScore(tc.score), "score %v", tc.score)
	}
}

func TestRubricTotal(t *testing.T) {
	score := func(v int) *int { return &v }

	t.Run("unscored criteria are excluded", func(t *testing.T) {
		total := RubricTotal([]models.RubricScore{
			{Name: "correctness", Weight: 40, Score: score(90)},
			{Name: "style", Weight: 30, Score: score(80)},
			{Name: "documentation", Weight: 30},
		})
		require.Equal(t, 86, total)
	})

	t.Run("all criteria scored", func(t *testing.T) {
		total := RubricTotal([]models.RubricScore{
			{Name: "correctness", Weight: 50, Score: score(100)},
			{Name: "style", Weight: 50, Score: score(80)},
		})
		require.Equal(t, 90, total)
	})

	t.Run("all unscored yields zero", func(t *testing.T) {
		total := RubricTotal([]models.RubricScore{
			{Name: "correctness", Weight: 40},
			{Name: "style", Weight: 60},
		})
		require.Equal(t, 0, total)
	})

	t.Run("empty rubric yields zero", func(t *testing.T) {
		require.Equal(t, 0, RubricTotal(nil))
	})
}
