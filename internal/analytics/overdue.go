package analytics

import (
	"slices"
	"time"

	"github.com/yukikurage/task-analytics-api/internal/models"
)

// OverdueBucket summarises overdue open tasks of one priority.
type OverdueBucket struct {
	Priority       models.Priority `json:"priority"`
	Count          int             `json:"count"`
	AvgDaysOverdue float64         `json:"avgDaysOverdue"`
}

// IsOverdue reports whether t is past its due date at now and still open.
func IsOverdue(t models.Task, now time.Time) bool {
	if t.DueDate == nil || !t.DueDate.Before(now) {
		return false
	}
	return t.Status != models.TaskStatusCompleted && t.Status != models.TaskStatusCancelled
}

// OverdueAnalysis groups the overdue tasks by priority, most urgent first.
// The same now is used for the filter and for the age of every task.
func OverdueAnalysis(tasks []models.Task, now time.Time) []OverdueBucket {
	overdue := make([]models.Task, 0)
	for _, t := range tasks {
		if IsOverdue(t, now) {
			overdue = append(overdue, t)
		}
	}

	buckets := GroupBy(overdue,
		func(t models.Task) models.Priority { return t.Priority },
		Average("avgDaysOverdue", func(t models.Task) (float64, bool) {
			return now.Sub(*t.DueDate).Hours() / 24, true
		}),
	)

	result := make([]OverdueBucket, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, OverdueBucket{
			Priority:       b.Key,
			Count:          b.Count,
			AvgDaysOverdue: round(b.Value("avgDaysOverdue"), 1),
		})
	}
	slices.SortFunc(result, func(a, b OverdueBucket) int {
		return compareEnum(models.Priorities, b.Priority, a.Priority)
	})
	return result
}
