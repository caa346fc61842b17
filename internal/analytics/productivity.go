package analytics

import (
	"slices"
	"strings"
	"time"

	"github.com/yukikurage/task-analytics-api/internal/models"
)

// DailyProductivity summarises the completions of one calendar day (UTC).
type DailyProductivity struct {
	Date               string  `json:"date"`
	Completed          int     `json:"completed"`
	TotalHours         float64 `json:"totalHours"`
	AvgCompletionHours float64 `json:"avgCompletionHours"`
}

// ProductivitySeries buckets tasks created at or after since and carrying a
// completion date by the day they were completed. Days are ascending; a
// window without completions yields an empty series.
func ProductivitySeries(tasks []models.Task, since time.Time) []DailyProductivity {
	completed := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.CompletedDate != nil && !t.CreatedAt.Before(since) {
			completed = append(completed, t)
		}
	}

	buckets := GroupBy(completed,
		func(t models.Task) string { return dayKey(*t.CompletedDate) },
		Sum("totalHours", actualHours),
		Average("avgCompletionHours", completionLatencyHours),
	)

	series := make([]DailyProductivity, 0, len(buckets))
	for _, b := range buckets {
		series = append(series, DailyProductivity{
			Date:               b.Key,
			Completed:          b.Count,
			TotalHours:         round(b.Value("totalHours"), 2),
			AvgCompletionHours: round(b.Value("avgCompletionHours"), 2),
		})
	}
	slices.SortFunc(series, func(a, b DailyProductivity) int {
		return strings.Compare(a.Date, b.Date)
	})
	return series
}

func completionLatencyHours(t models.Task) (float64, bool) {
	if t.CompletedDate == nil {
		return 0, false
	}
	return t.CompletedDate.Sub(t.CreatedAt).Hours(), true
}
