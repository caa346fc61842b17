package analytics

import (
	"math"

	"github.com/yukikurage/task-analytics-api/internal/models"
)

// PerformanceInsights are ratios derived from the status rollup and the
// productivity series.
type PerformanceInsights struct {
	// TimeAccuracy compares total actual and total estimated hours across
	// all statuses as min/max*100: 100 means estimates matched exactly.
	TimeAccuracy float64 `json:"timeAccuracy"`
	// CompletionRate is the share of completed tasks, in percent.
	CompletionRate float64 `json:"completionRate"`
	// AvgTasksPerDay is the mean number of completions per active day.
	AvgTasksPerDay float64 `json:"avgTasksPerDay"`
}

// SynthesizeInsights derives PerformanceInsights without touching the store.
// Every ratio is 0 when its denominator is 0.
func SynthesizeInsights(statuses []StatusBucket, series []DailyProductivity) PerformanceInsights {
	var total, completed int
	var estimated, actual float64
	for _, b := range statuses {
		total += b.Count
		if b.Status == models.TaskStatusCompleted {
			completed += b.Count
		}
		estimated += b.TotalEstimated
		actual += b.TotalActual
	}

	var completions int
	for _, day := range series {
		completions += day.Completed
	}

	return PerformanceInsights{
		TimeAccuracy:   Percentage(math.Min(actual, estimated), math.Max(actual, estimated)),
		CompletionRate: Percentage(float64(completed), float64(total)),
		AvgTasksPerDay: round(safeDivide(float64(completions), float64(len(series))), 2),
	}
}
