package analytics

import (
	"slices"

	"github.com/yukikurage/task-analytics-api/internal/models"
)

// StatusBucket is the task rollup for one status.
type StatusBucket struct {
	Status         models.TaskStatus `json:"status"`
	Count          int               `json:"count"`
	TotalEstimated float64           `json:"totalEstimated"`
	TotalActual    float64           `json:"totalActual"`
	AvgActual      float64           `json:"avgActual"`
	AvgVariance    float64           `json:"avgVariance"`
}

// PriorityBucket is the task rollup for one priority.
type PriorityBucket struct {
	Priority models.Priority `json:"priority"`
	Count    int             `json:"count"`
}

// ProjectStatusBucket is the project rollup for one status.
type ProjectStatusBucket struct {
	Status models.ProjectStatus `json:"status"`
	Count  int                  `json:"count"`
}

// TaskStatusRollup groups tasks by status with hour totals, in workflow order.
// AvgVariance is the mean of actual minus estimated hours over the tasks that
// report both.
func TaskStatusRollup(tasks []models.Task) []StatusBucket {
	buckets := GroupBy(tasks,
		func(t models.Task) models.TaskStatus { return t.Status },
		Sum("totalEstimated", estimatedHours),
		Sum("totalActual", actualHours),
		Average("avgActual", actualHours),
		ConditionalAverage("avgVariance", hasTrackedHours, hoursVariance),
	)

	result := make([]StatusBucket, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, StatusBucket{
			Status:         b.Key,
			Count:          b.Count,
			TotalEstimated: round(b.Value("totalEstimated"), 2),
			TotalActual:    round(b.Value("totalActual"), 2),
			AvgActual:      round(b.Value("avgActual"), 2),
			AvgVariance:    round(b.Value("avgVariance"), 2),
		})
	}
	slices.SortFunc(result, func(a, b StatusBucket) int {
		return compareEnum(models.TaskStatuses, a.Status, b.Status)
	})
	return result
}

// TaskPriorityRollup counts tasks per priority, lowest priority first.
func TaskPriorityRollup(tasks []models.Task) []PriorityBucket {
	buckets := GroupBy(tasks, func(t models.Task) models.Priority { return t.Priority })

	result := make([]PriorityBucket, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, PriorityBucket{Priority: b.Key, Count: b.Count})
	}
	slices.SortFunc(result, func(a, b PriorityBucket) int {
		return compareEnum(models.Priorities, a.Priority, b.Priority)
	})
	return result
}

// ProjectStatusRollup counts projects per status in lifecycle order.
func ProjectStatusRollup(projects []models.Project) []ProjectStatusBucket {
	buckets := GroupBy(projects, func(p models.Project) models.ProjectStatus { return p.Status })

	result := make([]ProjectStatusBucket, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, ProjectStatusBucket{Status: b.Key, Count: b.Count})
	}
	slices.SortFunc(result, func(a, b ProjectStatusBucket) int {
		return compareEnum(models.ProjectStatuses, a.Status, b.Status)
	})
	return result
}
