package analytics

import (
	"slices"

	"github.com/yukikurage/task-analytics-api/internal/models"
)

// StatusCount is one cell of the priority×status cross-tabulation.
type StatusCount struct {
	Status models.TaskStatus `json:"status"`
	Count  int               `json:"count"`
}

// PriorityBreakdown is one row of the priority×status cross-tabulation.
// Total always equals the sum of the Statuses counts.
type PriorityBreakdown struct {
	Priority models.Priority `json:"priority"`
	Total    int             `json:"total"`
	Statuses []StatusCount   `json:"statuses"`
}

type priorityStatus struct {
	priority models.Priority
	status   models.TaskStatus
}

// PriorityStatusCrossTab counts tasks per (priority, status) cell, then
// folds the cells into one row per priority.
func PriorityStatusCrossTab(tasks []models.Task) []PriorityBreakdown {
	cells := GroupBy(tasks, func(t models.Task) priorityStatus {
		return priorityStatus{priority: t.Priority, status: t.Status}
	})

	rows := GroupBy(cells,
		func(c Bucket[priorityStatus]) models.Priority { return c.Key.priority },
		Sum("total", func(c Bucket[priorityStatus]) (float64, bool) { return float64(c.Count), true }),
	)

	statuses := make(map[models.Priority][]StatusCount, len(rows))
	for _, c := range cells {
		statuses[c.Key.priority] = append(statuses[c.Key.priority], StatusCount{Status: c.Key.status, Count: c.Count})
	}

	result := make([]PriorityBreakdown, 0, len(rows))
	for _, row := range rows {
		breakdown := statuses[row.Key]
		slices.SortFunc(breakdown, func(a, b StatusCount) int {
			return compareEnum(models.TaskStatuses, a.Status, b.Status)
		})
		result = append(result, PriorityBreakdown{
			Priority: row.Key,
			Total:    int(row.Value("total")),
			Statuses: breakdown,
		})
	}
	slices.SortFunc(result, func(a, b PriorityBreakdown) int {
		return compareEnum(models.Priorities, a.Priority, b.Priority)
	})
	return result
}
